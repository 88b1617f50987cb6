package handlers

import (
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	user, err := h.userService.Signup(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Signin also serves /users/login.
func (h *UserHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	resp, err := h.userService.Signin(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
