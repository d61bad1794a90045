// Package contactapi exposes the clipboard and mail intent operations over a
// local HTTP command surface consumed by the rendered site.
package contactapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/temirov/complymint/internal/config"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	headerContentType       = "Content-Type"
	headerOrigin            = "Origin"
	mimeTypeJSON            = "application/json"
	capabilitiesPath        = "/capabilities"
	contactPath             = "/contact"
	rootPath                = "/"
	commandsPrefix          = "/commands"
	commandPathTemplate     = "/{name}"
	commandNameVariable     = "name"
	errorFieldName          = "error"
	errorCommandNotFound    = "command not found"
	errorTooManyRequests    = "too many requests"
	errorOriginNotAllowed   = "origin not allowed"
	errorUnsupportedMedia   = "content type must be application/json"
	maxRequestBodyBytes     = 64 << 10
)

// Capability describes a command exposed by the service.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommandRequest holds the raw payload supplied by clients.
type CommandRequest struct {
	Payload json.RawMessage
}

// CommandExecutor executes a command based on an incoming request.
type CommandExecutor interface {
	Execute(ctx context.Context, request CommandRequest) (CommandResponse, error)
}

// CommandExecutorFunc adapts a function into a CommandExecutor.
type CommandExecutorFunc func(context.Context, CommandRequest) (CommandResponse, error)

// Execute invokes the underlying function.
func (executor CommandExecutorFunc) Execute(ctx context.Context, request CommandRequest) (CommandResponse, error) {
	return executor(ctx, request)
}

// CommandExecutionError represents a failure accompanied by an HTTP status code.
type CommandExecutionError struct {
	statusCode int
	err        error
}

// Error returns the error string.
func (executionError CommandExecutionError) Error() string {
	return executionError.err.Error()
}

// Unwrap exposes the wrapped error.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.err
}

// StatusCode reports the associated HTTP status code.
func (executionError CommandExecutionError) StatusCode() int {
	return executionError.statusCode
}

// NewCommandExecutionError creates a new CommandExecutionError.
func NewCommandExecutionError(statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return CommandExecutionError{statusCode: statusCode, err: err}
}

// Config defines runtime options for the service.
type Config struct {
	Address         string
	Capabilities    []Capability
	Executors       map[string]CommandExecutor
	Contact         config.ContactInfo
	AllowedOrigins  []string
	RateLimit       float64
	Burst           int
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server serves contact details and executes commands over HTTP.
type Server struct {
	config  Config
	limiter *rate.Limiter
}

// NewServer creates a new Server with defaults applied. A non-positive rate
// limit disables throttling.
func NewServer(serverConfig Config) Server {
	normalized := serverConfig
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Capabilities == nil {
		normalized.Capabilities = []Capability{}
	}
	if normalized.Executors == nil {
		normalized.Executors = map[string]CommandExecutor{}
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	limit := rate.Inf
	burst := normalized.Burst
	if normalized.RateLimit > 0 {
		limit = rate.Limit(normalized.RateLimit)
		if burst <= 0 {
			burst = 1
		}
	}
	return Server{config: normalized, limiter: rate.NewLimiter(limit, burst)}
}

// Handler returns the routed handler wrapped in CORS.
func (server Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(capabilitiesPath, server.handleCapabilities).Methods(http.MethodGet)
	router.HandleFunc(contactPath, server.handleContact).Methods(http.MethodGet)
	router.HandleFunc(rootPath, server.handleRoot).Methods(http.MethodGet)

	corsPolicy := cors.New(cors.Options{
		AllowedOrigins: server.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{headerContentType},
	})

	commands := router.PathPrefix(commandsPrefix).Subrouter()
	commands.Use(server.guardOrigin(corsPolicy), server.requireJSON, server.rateLimit)
	commands.HandleFunc(commandPathTemplate, server.handleCommand).Methods(http.MethodPost)

	return corsPolicy.Handler(router)
}

// Run starts the service and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve contact api: %w", serveErr)
		}
		return nil
	})

	server.config.Logger.Info("contact service listening", zap.String("address", actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown contact api: %w", shutdownErr)
		}
		server.config.Logger.Info("contact service stopped", zap.String("address", actualAddress))
		return nil
	})

	return group.Wait()
}

// guardOrigin rejects commands sent by pages outside the allowed origins.
// CORS headers alone do not stop a simple cross-origin POST from executing.
func (server Server) guardOrigin(corsPolicy *cors.Cors) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get(headerOrigin) != "" && !corsPolicy.OriginAllowed(request) {
				server.writeJSON(writer, http.StatusForbidden, map[string]string{errorFieldName: errorOriginNotAllowed})
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// requireJSON only admits application/json bodies, which browsers never send
// cross-origin without a preflight.
func (server Server) requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		mediaType, _, parseErr := mime.ParseMediaType(request.Header.Get(headerContentType))
		if parseErr != nil || mediaType != mimeTypeJSON {
			server.writeJSON(writer, http.StatusUnsupportedMediaType, map[string]string{errorFieldName: errorUnsupportedMedia})
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (server Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !server.limiter.Allow() {
			server.writeJSON(writer, http.StatusTooManyRequests, map[string]string{errorFieldName: errorTooManyRequests})
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (server Server) handleCapabilities(writer http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Capabilities []Capability `json:"capabilities"`
	}{Capabilities: server.config.Capabilities}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server Server) handleContact(writer http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		TelURI string `json:"tel_uri,omitempty"`
	}{
		Email:  server.config.Contact.Email,
		Phone:  server.config.Contact.Phone,
		TelURI: server.config.Contact.TelURI(),
	}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server Server) handleRoot(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func (server Server) handleCommand(writer http.ResponseWriter, request *http.Request) {
	commandName := mux.Vars(request)[commandNameVariable]
	executor, found := server.config.Executors[commandName]
	if !found {
		server.writeJSON(writer, http.StatusNotFound, map[string]string{errorFieldName: errorCommandNotFound})
		return
	}
	body, readErr := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxRequestBodyBytes))
	if readErr != nil {
		server.writeJSON(writer, http.StatusBadRequest, map[string]string{errorFieldName: fmt.Sprintf("read request body: %v", readErr)})
		return
	}
	commandRequest := CommandRequest{Payload: json.RawMessage(body)}
	commandResponse, executeErr := executor.Execute(request.Context(), commandRequest)
	if executeErr != nil {
		statusCode := server.statusCodeFromError(executeErr)
		server.config.Logger.Warn("contact command failed",
			zap.String("command", commandName),
			zap.Int("status", statusCode),
			zap.Error(executeErr))
		server.writeJSON(writer, statusCode, map[string]string{errorFieldName: executeErr.Error()})
		return
	}
	server.writeJSON(writer, http.StatusOK, commandResponse)
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

func (server Server) statusCodeFromError(err error) int {
	var executionError CommandExecutionError
	if errors.As(err, &executionError) {
		return executionError.StatusCode()
	}
	return http.StatusInternalServerError
}
