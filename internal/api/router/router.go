package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"

	"chatterbox_service/internal/api/handlers"
	chatapp "chatterbox_service/internal/chat/app"
	"chatterbox_service/pkg/middlewares"
)

// RegisterRoutes 注册用户相关的路由
// @title Chatterbox Service API
// @version 1.0
// @description API documentation for Chatterbox Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(
	app *fiber.App,
	verifier middlewares.IdentityVerifier,
	memberHandler *handlers.MemberHandler,
	chatHandler *handlers.ChatHandler,
	aiHandler *handlers.AIHandler,
	chatWebsocket *chatapp.ChatWebsocketHandler,
) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	auth := middlewares.AuthRequired(verifier)

	memberRoutes := app.Group("/member")
	memberRoutes.Post("/register", memberHandler.Register)
	memberRoutes.Post("/login", memberHandler.Login)
	memberRoutes.Post("/logout", auth, memberHandler.Logout)

	userRoutes := app.Group("/users", auth)
	userRoutes.Get("/me", memberHandler.Profile)
	userRoutes.Put("/me", memberHandler.UpdateProfile)
	userRoutes.Put("/me/password", memberHandler.ChangePassword)
	userRoutes.Get("/me/picture", memberHandler.Picture)
	userRoutes.Put("/me/picture", memberHandler.UploadPicture)
	userRoutes.Get("/search", memberHandler.Search)

	chatRoutes := app.Group("/chats", auth)
	chatRoutes.Post("/", chatHandler.CreateOrGet)
	chatRoutes.Get("/", chatHandler.List)
	chatRoutes.Post("/group", chatHandler.CreateGroup)
	chatRoutes.Get("/group/admin", chatHandler.AdminGroups)
	chatRoutes.Put("/group/:chatId/name", chatHandler.RenameGroup)
	chatRoutes.Get("/group/:chatId/picture", chatHandler.GroupPicture)
	chatRoutes.Put("/group/:chatId/picture", chatHandler.UploadGroupPicture)
	chatRoutes.Post("/group/:chatId/participants", chatHandler.AddParticipant)
	chatRoutes.Delete("/group/:chatId/participants/:userId", chatHandler.RemoveParticipant)
	chatRoutes.Get("/:chatId", chatHandler.Get)
	chatRoutes.Get("/:chatId/messages", chatHandler.Messages)

	aiRoutes := app.Group("/ai", auth)
	aiRoutes.Post("/rewrite", aiHandler.Rewrite)
	aiRoutes.Get("/rewrite/types", aiHandler.RewriteTypes)

	// the credential rides in the "auth" query param on the handshake,
	// the same verifier guards REST and websocket entry
	app.Get("/ws", auth, websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
