// FILE: internal/controller/chat_controller.go
package controller

import (
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/mapper"
	"kelly-ai-client/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ListConversations(ctx *fiber.Ctx) error
	CreateConversation(ctx *fiber.Ctx) error
	CurrentConversation(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	SelectConversation(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Typing(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type chatController struct {
	conversations service.IConversationService
	chat          service.IChatService
	mapper        *mapper.ConversationMapper
}

func NewChatController(conversations service.IConversationService, chat service.IChatService) IChatController {
	return &chatController{
		conversations: conversations,
		chat:          chat,
		mapper:        mapper.NewConversationMapper(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	conv := r.Group("/conversations")
	conv.Get("/", c.ListConversations)
	conv.Post("/", c.CreateConversation)
	conv.Get("/current", c.CurrentConversation)
	conv.Get("/:id", c.GetConversation)
	conv.Put("/:id/select", c.SelectConversation)
	conv.Delete("/:id", c.DeleteConversation)

	chat := r.Group("/chat")
	chat.Post("/messages", c.SendMessage)
	chat.Get("/typing", c.Typing)
	chat.Get("/suggestions", c.Suggestions)
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	currentId := c.conversations.CurrentId()
	list := c.conversations.List()

	res := make([]*dto.ConversationSummaryResponse, 0, len(list))
	for _, conv := range list {
		res = append(res, c.mapper.ConversationToSummary(conv, currentId))
	}
	return ok(ctx, "Conversations retrieved", res)
}

func (c *chatController) CreateConversation(ctx *fiber.Ctx) error {
	conv, err := c.conversations.Create(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Conversation created", c.mapper.ConversationToResponse(conv))
}

// CurrentConversation returns null data when nothing is selected.
func (c *chatController) CurrentConversation(ctx *fiber.Ctx) error {
	return ok(ctx, "Current conversation", c.mapper.ConversationToResponse(c.conversations.Current()))
}

func (c *chatController) GetConversation(ctx *fiber.Ctx) error {
	conv, found := c.conversations.Get(ctx.Params("id"))
	if !found {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    fiber.StatusNotFound,
			"message": "Conversation not found",
		})
	}
	return ok(ctx, "Conversation retrieved", c.mapper.ConversationToResponse(conv))
}

func (c *chatController) SelectConversation(ctx *fiber.Ctx) error {
	if err := c.conversations.Select(ctx.UserContext(), ctx.Params("id")); err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Conversation selected", c.mapper.ConversationToResponse(c.conversations.Current()))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	if err := c.conversations.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Conversation deleted", fiber.Map{"current_id": c.conversations.CurrentId()})
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody(ctx)
	}

	res, err := c.chat.SendMessage(ctx.UserContext(), req.Text)
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, "Message sent", res)
}

func (c *chatController) Typing(ctx *fiber.Ctx) error {
	res := dto.TypingResponse{IsTyping: c.chat.IsTyping()}
	if id := ctx.Query("conversation_id"); id != "" {
		res.IsTyping = c.chat.IsTypingIn(id)
	}
	return ok(ctx, "Typing status", res)
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	return ok(ctx, "Suggestions", c.chat.Suggestions())
}
