package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"Supermarket-Vision-Backend/pkg/jwt"
	"Supermarket-Vision-Backend/pkg/user"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(t *testing.T, autoRegister bool) *fiber.App {
	t.Helper()
	svc := user.NewUserService(user.NewUserRepository(testdb.New(t)), jwt.NewJWTService("secret"), autoRegister)
	h := NewUserHandler(svc, utils.NewValidator())

	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	return app
}

func TestRegisterAndLogin(t *testing.T) {
	app := newUserApp(t, false)

	status, _ := call(t, app, "POST", "/register", `{"name":"Admin","email":"admin@store.test","password":"password123"}`, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, res := call(t, app, "POST", "/register", `{"name":"Admin","email":"ADMIN@store.test","password":"password123"}`, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, domain.ErrEmailAlreadyExists.Error(), res.Error)

	status, _ = call(t, app, "POST", "/register", `{"name":"A","email":"bad","password":"short"}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var login domain.LoginResponse
	status, _ = call(t, app, "POST", "/login", `{"email":"admin@store.test","password":"password123"}`, &login)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleAdmin, login.Role)
	assert.False(t, login.Registered)

	status, _ = call(t, app, "POST", "/login", `{"email":"admin@store.test","password":"wrong-password"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "POST", "/login", `{"email":"nobody@store.test","password":"password123"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginFallsBackToSignUp(t *testing.T) {
	app := newUserApp(t, true)

	var login domain.LoginResponse
	status, _ := call(t, app, "POST", "/login", `{"email":"new@store.test","password":"password123"}`, &login)
	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, login.Registered)
	assert.NotEmpty(t, login.Token)
}
