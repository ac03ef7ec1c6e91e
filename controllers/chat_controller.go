package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/services"
)

type ChatController struct {
	chats *services.ChatService
}

func NewChatController(chats *services.ChatService) *ChatController {
	return &ChatController{chats: chats}
}

// List returns the authenticated user's chat sessions, most recent first.
func (ctl *ChatController) List(c *gin.Context) {
	sessions := ctl.chats.SessionsForUser(c.GetString("userID"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sessions,
		"count":   len(sessions),
	})
}

// Get returns one session with its full transcript.
func (ctl *ChatController) Get(c *gin.Context) {
	session, err := ctl.chats.Session(c.Param("id"), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversa não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

type chatMessageRequest struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content" binding:"required"`
}

// SendMessage appends the user's turn and the assistant's reply. An empty
// session id starts a new conversation.
func (ctl *ChatController) SendMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem é obrigatória"})
		return
	}

	session, err := ctl.chats.SendMessage(c.Request.Context(), req.SessionID, c.GetString("userID"), req.Content)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversa não encontrada"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao obter resposta do assistente"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// Delete removes one of the user's sessions.
func (ctl *ChatController) Delete(c *gin.Context) {
	if err := ctl.chats.DeleteSession(c.Param("id"), c.GetString("userID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversa não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Conversa removida",
	})
}
