package internal

import (
	"net/http"

	"fld/internal/controllers"
	"fld/internal/providers"
	"fld/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/api/growth", http.HandlerFunc(apiController.GetGrowth))
	routers.Get("/api/trends", http.HandlerFunc(apiController.GetTrends))
	routers.Get("/api/profile", http.HandlerFunc(apiController.GetProfile))
	routers.Get("/api/accounts", http.HandlerFunc(apiController.GetAccounts))
	routers.Get("/api/accounts/pending", http.HandlerFunc(apiController.GetPendingAccounts))
	routers.Post("/api/submit", http.HandlerFunc(apiController.SubmitAccount))
	routers.Post("/api/approve", http.HandlerFunc(apiController.ApproveAccount))
	routers.Post("/api/reject", http.HandlerFunc(apiController.RejectAccount))
	routers.Post("/api/remove", http.HandlerFunc(apiController.RemoveAccount))
	routers.Get("/api/stats/scrape", http.HandlerFunc(apiController.GetScrapeStats))
	routers.Get("/api/status", http.HandlerFunc(apiController.GetStatus))
	return routers
}
