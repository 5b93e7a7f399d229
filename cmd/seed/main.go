// Command seed loads users and projects from a YAML file into the gateway's
// badger store, so a local gateway has someone to authenticate and somewhere to join.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dkeye/Collab/internal/config"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/dkeye/Collab/internal/storage"
)

type fixtures struct {
	Users []struct {
		ID     string `mapstructure:"id"`
		Name   string `mapstructure:"name"`
		Avatar string `mapstructure:"avatar"`
		Active *bool  `mapstructure:"active"`
	} `mapstructure:"users"`
	Projects []struct {
		ID      string   `mapstructure:"id"`
		Name    string   `mapstructure:"name"`
		Owner   string   `mapstructure:"owner"`
		Members []string `mapstructure:"members"`
	} `mapstructure:"projects"`
}

func main() {
	file := flag.String("file", "config/seed.yaml", "fixtures file")
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	v := viper.New()
	v.SetConfigFile(*file)
	if err := v.ReadInConfig(); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read fixtures")
	}
	var fx fixtures
	if err := v.Unmarshal(&fx); err != nil {
		log.Fatal().Err(err).Msg("parse fixtures")
	}

	db, err := storage.Open(cfg.BadgerPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer db.Close()

	ctx := context.Background()
	users := storage.NewUserRepository(db)
	for _, u := range fx.Users {
		active := u.Active == nil || *u.Active
		if err := users.PutUser(ctx, domain.User{ID: domain.UserID(u.ID), Name: u.Name, Avatar: u.Avatar, Active: active}); err != nil {
			log.Fatal().Err(err).Msg("seed user")
		}
	}
	projects := storage.NewProjectRepository(db)
	for _, p := range fx.Projects {
		members := make([]domain.UserID, 0, len(p.Members))
		for _, m := range p.Members {
			members = append(members, domain.UserID(m))
		}
		if err := projects.PutProject(ctx, domain.Project{ID: domain.RoomID(p.ID), Name: p.Name, OwnerID: domain.UserID(p.Owner), MemberIDs: members}); err != nil {
			log.Fatal().Err(err).Msg("seed project")
		}
	}
	log.Info().Int("users", len(fx.Users)).Int("projects", len(fx.Projects)).Str("badger", cfg.BadgerPath).Msg("seeded")
}
