// @title Lingua progress API
// @description Streak, goal and points tracking for the Lingua language-exchange platform
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/tandemio/lingua/internal/api"
	"github.com/tandemio/lingua/internal/repository"
	"github.com/tandemio/lingua/internal/service"
	"github.com/tandemio/lingua/pkg/cleanup"
	"github.com/tandemio/lingua/pkg/config"
	jwtservice "github.com/tandemio/lingua/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	userService := service.NewUserService(usersRepo)
	progressService := service.NewProgressService(usersRepo, repository.NewProgressRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		UserService:     userService,
		ProgressService: progressService,
		JwtService:      jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
