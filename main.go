package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-solo/api"
	gameapi "github.com/beka-birhanu/vinom-solo/api/game"
	api_i "github.com/beka-birhanu/vinom-solo/api/i"
	"github.com/beka-birhanu/vinom-solo/api/identity"
	"github.com/beka-birhanu/vinom-solo/config"
	"github.com/beka-birhanu/vinom-solo/infrastruture/logger"
	"github.com/beka-birhanu/vinom-solo/infrastruture/token"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/beka-birhanu/vinom-solo/service"
	"github.com/beka-birhanu/vinom-solo/service/i"
	"github.com/gin-gonic/gin"
)

// Global variables for dependencies
var (
	appLogger          *logger.Logger
	gameSessionManager *service.GameSessionManager
	jwtTokenizer       i.Tokenizer
	gameController     api_i.Controller
	router             *api.Router
)

func newLogger(name, color string) *logger.Logger {
	l, err := logger.New(name, color, os.Stdout,
		logger.WithLevel(config.Envs.LogLevel),
		logger.WithFile(config.Envs.LogFile),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", name, err)
		os.Exit(1)
	}
	return l
}

func initSessionManager() {
	var err error
	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		MazeFactory: maze.New,
		Width:       config.Envs.MazeWidth,
		Height:      config.Envs.MazeHeight,
		TTL:         time.Duration(config.Envs.SessionTTLSeconds) * time.Second,
		Logger:      newLogger("SESSION-MANAGER", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initGameController() {
	var err error
	gameController, err = gameapi.NewGameController(
		gameSessionManager,
		jwtTokenizer,
		time.Duration(config.Envs.TokenTTLSeconds)*time.Second,
		newLogger("GAME-API", config.ColorMagenta),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Game controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{gameController},
		AuthorizationMiddleware: identity.Authoriz(t),
		Logger:                  newLogger("HTTP", config.ColorBlue),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLogger = newLogger("APP", config.ColorGreen)
	defer appLogger.Close()

	if _, err := maze.New(config.Envs.MazeWidth, config.Envs.MazeHeight); err != nil {
		appLogger.Error(fmt.Sprintf("Invalid maze size %dx%d: %v", config.Envs.MazeWidth, config.Envs.MazeHeight, err))
		os.Exit(1)
	}

	initSessionManager()
	defer gameSessionManager.StopAll()
	go gameSessionManager.StartJanitor(ctx, time.Duration(config.Envs.SweepIntervalSecs)*time.Second)

	initJWTTokenizer()
	initGameController()
	initRouter(jwtTokenizer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Run()
	}()
	appLogger.Info(fmt.Sprintf("Listening on %s:%d", config.Envs.HostIP, config.Envs.RESTPort))

	select {
	case err := <-errCh:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
	case <-ctx.Done():
		appLogger.Info("Shutting down")
	}
}
