//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/janhq/searxng-tools/internal/domain"
	"github.com/janhq/searxng-tools/internal/infrastructure"
	"github.com/janhq/searxng-tools/internal/interfaces"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.DomainProvider,
		infrastructure.InfrastructureProvider,
		routes.RoutesProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
