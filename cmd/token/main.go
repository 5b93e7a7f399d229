// Command token prints a bearer token for local testing of the gateway.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Collab/internal/auth"
	"github.com/dkeye/Collab/internal/config"
	"github.com/dkeye/Collab/internal/domain"
)

func main() {
	user := flag.String("user", "", "user id to issue the token for")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to token_ttl from config)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *user == "" {
		log.Fatal().Msg("-user is required")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *ttl == 0 {
		*ttl = cfg.TokenTTL
	}

	token, err := auth.GenerateToken([]byte(cfg.Secret), domain.UserID(*user), *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}
	fmt.Println(token)
}
