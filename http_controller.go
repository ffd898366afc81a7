package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes wires the JSON auth API onto the router. Invite
// issuance, the active invite lookup and /me sit behind RequireAuth; the
// token-validation lookup is public so the registration page can inspect an
// invite before the visitor has an account.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)
	protected := controller.Auth.RequireAuth()

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login.post")

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("auth.register.post")

	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("auth.refresh.post")

	app.Post(controller.Routes.Logout, controller.LogoutPost, protected).
		SetName("auth.logout.post")

	app.Post(controller.Routes.Invite, controller.InviteCreate, protected).
		SetName("auth.invite.post")

	app.Get(fmt.Sprintf("%s/active", controller.Routes.Invite), controller.InviteActiveShow, protected).
		SetName("auth.invite-active.get")

	app.Get(fmt.Sprintf("%s/:token", controller.Routes.Invite), controller.InviteValidateShow).
		SetName("auth.invite-validate.get")

	app.Get(controller.Routes.Me, controller.MeShow, protected).
		SetName("auth.me.get")
}

type AuthControllerRoutes struct {
	Login    string
	Register string
	Refresh  string
	Logout   string
	Invite   string
	Me       string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Coordinator  *Coordinator
	Auth         *RouteAuthenticator
	Routes       *AuthControllerRoutes
	ErrorHandler func(router.Context, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithCoordinator(coordinator *Coordinator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Coordinator = coordinator
		return c
	}
}

func WithRouteAuthenticator(auth *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
			Refresh:  "/auth/refresh",
			Logout:   "/auth/logout",
			Invite:   "/auth/invite",
			Me:       "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.ErrorHandler == nil {
		logger := c.Logger
		c.ErrorHandler = func(ctx router.Context, err error) error {
			return WriteError(ctx, logger, err)
		}
	}

	if c.Coordinator == nil {
		panic("Missing Coordinator in auth controller...")
	}

	if c.Auth == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

// LoginRequest payload
type LoginRequest struct {
	Login string `form:"login" json:"login"`
	Senha string `form:"senha" json:"senha"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Login,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(
			&r.Senha,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return a.badRequest(ctx, "Login e senha são obrigatórios")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "Login e senha são obrigatórios")
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	result, err := a.Coordinator.Login(ctx.Context(), payload.Login, payload.Senha)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Data:    result,
		Message: "Login realizado com sucesso",
	})
}

// RegistrationCreatePayload is the invite redemption payload
type RegistrationCreatePayload struct {
	Nome              string `form:"nome" json:"nome"`
	Login             string `form:"login" json:"login"`
	Senha             string `form:"senha" json:"senha"`
	Token             string `form:"token" json:"token"`
	EmailValidacao    string `form:"emailValidacao" json:"emailValidacao"`
	TelefoneValidacao string `form:"telefoneValidacao" json:"telefoneValidacao"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nome, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Login, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Senha, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Token, validation.Required, is.Hexadecimal),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: ", "error", err)
		return a.badRequest(ctx, "Dados de registro inválidos")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload: ", "error", err)
		return a.badRequest(ctx, "Dados de registro inválidos")
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	result, err := a.Coordinator.Register(ctx.Context(), RegisterInput{
		Nome:              payload.Nome,
		Login:             payload.Login,
		Senha:             payload.Senha,
		Token:             payload.Token,
		EmailValidacao:    payload.EmailValidacao,
		TelefoneValidacao: payload.TelefoneValidacao,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, DataResponse{
		Success: true,
		Data:    result,
		Message: "Usuário registrado com sucesso",
	})
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	payload := new(RefreshRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "Refresh token é obrigatório")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "Refresh token é obrigatório")
	}

	result, err := a.Coordinator.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Data:    result,
	})
}

// LogoutPost acknowledges a logout. Bearer tokens are stateless and there is
// no server-side session to revoke; clients discard their stored pair.
func (a *AuthController) LogoutPost(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Message: "Logout realizado com sucesso",
	})
}

// InviteCreatePayload carries the contact an invite is bound to.
type InviteCreatePayload struct {
	Email    string `form:"email" json:"email"`
	Telefone string `form:"telefone" json:"telefone"`
}

// Validate will run validation rules. Contact format and the email or
// telefone requirement are enforced by the invite manager.
func (r InviteCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Length(0, 100)),
		validation.Field(&r.Telefone, validation.Length(0, 20)),
	)
}

// InviteResponse is the public projection of an invite.
type InviteResponse struct {
	Token    string    `json:"token"`
	ExpiraEm time.Time `json:"expiraEm"`
}

func (a *AuthController) InviteCreate(ctx router.Context) error {
	admin, ok := AdminFromLocals(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrInvalidToken)
	}

	payload := new(InviteCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "Dados do convite inválidos")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "Dados do convite inválidos")
	}

	invite, err := a.Coordinator.Invites().Create(ctx.Context(), InviteContact{
		Email:    payload.Email,
		Telefone: payload.Telefone,
	}, admin.ID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, DataResponse{
		Success: true,
		Data: InviteResponse{
			Token:    invite.Token,
			ExpiraEm: invite.ExpiraEm,
		},
		Message: "Convite criado com sucesso",
	})
}

func (a *AuthController) InviteActiveShow(ctx router.Context) error {
	admin, ok := AdminFromLocals(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrInvalidToken)
	}

	invite, err := a.Coordinator.Invites().GetActive(ctx.Context(), admin.ID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if invite == nil {
		return ctx.JSON(router.StatusOK, DataResponse{
			Success: true,
			Data:    nil,
		})
	}

	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Data: InviteResponse{
			Token:    invite.Token,
			ExpiraEm: invite.ExpiraEm,
		},
	})
}

// InviteDetailsResponse describes a redeemable invite to the registration
// page, including who issued it.
type InviteDetailsResponse struct {
	Email      string    `json:"email,omitempty"`
	Telefone   string    `json:"telefone,omitempty"`
	EnviadoPor string    `json:"enviadoPor"`
	ExpiraEm   time.Time `json:"expiraEm"`
}

func (a *AuthController) InviteValidateShow(ctx router.Context) error {
	token := ctx.Param("token")

	invite, err := a.Coordinator.Invites().Validate(ctx.Context(), token)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	details := InviteDetailsResponse{
		Email:    invite.Email,
		Telefone: invite.Telefone,
		ExpiraEm: invite.ExpiraEm,
	}

	if invite.EnviadoPor != nil {
		details.EnviadoPor = invite.EnviadoPor.Nome
	}

	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Data:    details,
	})
}

func (a *AuthController) MeShow(ctx router.Context) error {
	admin, ok := AdminFromLocals(ctx)
	if !ok {
		return a.ErrorHandler(ctx, ErrInvalidToken)
	}

	return ctx.JSON(router.StatusOK, DataResponse{
		Success: true,
		Data:    admin,
	})
}

func (a *AuthController) badRequest(ctx router.Context, msg string) error {
	return ctx.JSON(router.StatusBadRequest, ErrorResponse{
		Error: msg,
		Code:  "VALIDATION_ERROR",
	})
}
