// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
)

// Config holds the configuration for the HTTP server.
type Config struct {
	// Address is the address to listen on, e.g. ":8080".
	Address string `yaml:"address"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// ShutdownTimeout bounds how long shutdown waits for open requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxExprLen is the longest expression in bytes the server accepts.
	MaxExprLen int `yaml:"max_expr_len"`
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		MaxExprLen:      64 << 10,
	}
}

// Server serves expression evaluation requests.
type Server struct {
	app *fiber.App
	cfg Config
	log *zap.Logger
}

// New creates a server. A nil log discards logs.
func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "calc",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             bodyLimit(cfg.MaxExprLen),
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s := &Server{app: app, cfg: cfg, log: log}
	app.Use(fiberrecover.New())
	app.Use(s.logRequests)

	app.Get("/health", s.health)
	v1 := app.Group("/api/v1")
	v1.Post("/eval", s.eval)
	v1.Post("/compile", s.compile)
	v1.Post("/rpn", s.rpn)
	return s
}

// bodyLimit leaves room for the JSON wrapper around an expression.
func bodyLimit(n int) int {
	if n <= 0 {
		return fiber.DefaultBodyLimit
	}
	return n + 4096
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.log.Info("listening", zap.String("address", s.cfg.Address))
	return s.app.Listen(s.cfg.Address)
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// EvalRequest is the body of /api/v1/eval and /api/v1/compile.
type EvalRequest struct {
	Expr string `json:"expr"`
}

// RPNRequest is the body of /api/v1/rpn.
type RPNRequest struct {
	Postfix string `json:"postfix"`
}

// EvalResponse is the result of evaluating an expression or program.
type EvalResponse struct {
	Result  Value  `json:"result"`
	Postfix string `json:"postfix"`
}

// CompileResponse is the result of compiling an expression.
type CompileResponse struct {
	Postfix string `json:"postfix"`
}

// ErrorResponse describes a failed request. Pos is the column of the error in
// the submitted text, if there is one.
type ErrorResponse struct {
	Error string `json:"error"`
	Pos   int    `json:"pos,omitempty"`
}

// Value is a result that encodes non-finite values as JSON strings.
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) eval(c *fiber.Ctx) error {
	var req EvalRequest
	if err := s.bind(c, &req, &req.Expr); err != nil {
		return err
	}
	p, err := calc.CompileString(req.Expr)
	if err != nil {
		return s.inputError(c, req.Expr, err)
	}
	return s.run(c, p)
}

func (s *Server) compile(c *fiber.Ctx) error {
	var req EvalRequest
	if err := s.bind(c, &req, &req.Expr); err != nil {
		return err
	}
	p, err := calc.CompileString(req.Expr)
	if err != nil {
		return s.inputError(c, req.Expr, err)
	}
	return c.JSON(CompileResponse{Postfix: p.String()})
}

func (s *Server) rpn(c *fiber.Ctx) error {
	var req RPNRequest
	if err := s.bind(c, &req, &req.Postfix); err != nil {
		return err
	}
	p, err := calc.ParseProgram(req.Postfix)
	if err != nil {
		return s.inputError(c, req.Postfix, err)
	}
	return s.run(c, p)
}

// bind decodes the request body into req and checks the length of text.
func (s *Server) bind(c *fiber.Ctx, req interface{}, text *string) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if s.cfg.MaxExprLen > 0 && len(*text) > s.cfg.MaxExprLen {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "expression longer than "+strconv.Itoa(s.cfg.MaxExprLen)+" bytes")
	}
	return nil
}

func (s *Server) run(c *fiber.Ctx, p *calc.Program) error {
	s.log.Debug("evaluating", zap.Stringer("postfix", p))
	r, err := p.Eval()
	if err != nil {
		return s.inputError(c, p.String(), err)
	}
	return c.JSON(EvalResponse{Result: Value(r), Postfix: p.String()})
}

// inputError reports an error in submitted text.
func (s *Server) inputError(c *fiber.Ctx, text string, err error) error {
	var ie calc.InputError
	if !errors.As(err, &ie) {
		return err
	}
	s.log.Info("rejected input", zap.String("text", text), zap.Error(err))
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error(), Pos: ie.Pos()})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
