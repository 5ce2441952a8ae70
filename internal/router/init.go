package router

import (
	userapp "github.com/59-devv/adonis-roleplay/internal/application"
	"github.com/59-devv/adonis-roleplay/internal/container"
	pginfra "github.com/59-devv/adonis-roleplay/internal/infrastructure/postgres"
	handlers "github.com/59-devv/adonis-roleplay/internal/interface/http"
	"github.com/59-devv/adonis-roleplay/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	cfg := container.GetConfig()

	service := userapp.NewService(
		repo,
		container.GetRedis(),
		cfg.ProfileTTL,
		container.GetLogger(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetEventsPub(),
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())
	return modules.NewUserModule(handler)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool(), container.GetRedis())))
}
