package internal

import (
	"minedash/internal/controllers"
	"minedash/internal/providers"
	"net/http"
)

func InitRoutes(
	apiController *controllers.ApiController,
	updateController *controllers.UpdateController,
	chartController *controllers.ChartController,
	authController *controllers.AuthController,
	dashboardController *controllers.DashboardController,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/{$}", http.HandlerFunc(dashboardController.Index))
	routers.Get("/update", http.HandlerFunc(updateController.Update))

	routers.Get("/charts/mining", http.HandlerFunc(chartController.MiningChart))
	routers.Get("/charts/characters", http.HandlerFunc(chartController.CharacterChart))
	routers.Post("/charts/preview", http.HandlerFunc(chartController.Preview))

	routers.Get("/api/charts/mining", http.HandlerFunc(apiController.GetMiningChart))
	routers.Get("/api/charts/characters", http.HandlerFunc(apiController.GetCharacterChart))

	routers.Get("/sso/login", http.HandlerFunc(authController.Login))
	routers.Get("/sso/callback", http.HandlerFunc(authController.Callback))
	routers.Get("/sso/logout", http.HandlerFunc(authController.Logout))
	return routers
}
