package components

import (
	"fleet-rental/internal/handler"
	"fleet-rental/internal/handler/api"
	"fleet-rental/internal/handler/middleware"
	"fleet-rental/internal/pkg/config"
	"fleet-rental/internal/pkg/jwt"
	"fleet-rental/internal/usecase/commands"
	"fleet-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

type AuthHandlerParams struct {
	fx.In

	AuthCommands   commands.AuthCommands
	AccountQueries queries.AccountQueries
	JWTService     *jwt.Service
	Cfg            config.Config
}

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewAuthHandlerFromConfig,
		api.NewBookingHandler,
		api.NewVehicleHandler,
		api.NewCustomerHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthHandlerFromConfig(p AuthHandlerParams) *api.AuthHandler {
	return api.NewAuthHandler(p.AuthCommands, p.AccountQueries, p.JWTService, p.Cfg.Cookie)
}
