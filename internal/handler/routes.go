package handler

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every route. requireUser guards the authenticated ones.
func (h *Handler) Register(router gin.IRouter, requireUser gin.HandlerFunc) {
	router.GET("/", h.Root)
	router.GET("/healthz", h.Healthz)
	router.GET("/readyz", h.Readyz)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", h.public(h.Login))
		}

		posts := api.Group("/posts")
		{
			posts.GET("/:postId/comments", h.public(h.ListComments))

			protected := posts.Group("")
			protected.Use(requireUser)
			protected.GET("", h.authed(h.ListPosts))
			protected.POST("", h.authed(h.CreatePost))
			protected.POST("/:postId/addcomment", h.authed(h.AddComment))
			protected.POST("/:postId/likes/toggle", h.authed(h.ToggleLike))
		}

		profile := api.Group("/profile")
		profile.Use(requireUser)
		{
			profile.GET("/me", h.authed(h.GetMe))
			profile.GET("/by-username/:username", h.authed(h.GetByUsername))
			profile.POST("/addfriend/:userId", h.authed(h.SendFriendRequest))
			profile.GET("/friendrequests", h.authed(h.ListFriendRequests))
			profile.POST("/friendrequests/:requestId/respond", h.authed(h.RespondToFriendRequest))
		}

		friends := api.Group("/friends")
		friends.Use(requireUser)
		{
			friends.GET("", h.authed(h.ListFriends))
			friends.DELETE("/:friendId", h.authed(h.RemoveFriend))
		}

		chat := api.Group("/chat")
		chat.Use(requireUser)
		{
			chat.GET("/stream", h.authed(h.StreamMessages))
			chat.GET("/:friendId/messages", h.authed(h.GetMessages))
			chat.POST("/:friendId/messages", h.authed(h.SendMessage))
		}
	}
}
