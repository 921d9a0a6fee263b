package router

import (
	"context"
	"net/http"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/config"
	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"github.com/MotWakorb/guidearr/internal/app/guide"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger

	refresher *guide.Refresher
	pageTitle string
)

func NewEngine(ctx context.Context, conf *config.Config) (*gin.Engine, error) {
	logger = zap.L()

	gin.SetMode(gin.ReleaseMode)

	// validate the config file
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// create the Dispatcharr client
	client, err := dispatcharr.NewClient(&http.Client{
		Timeout: 30 * time.Second,
	}, conf.BaseURL, conf.Username, conf.Password, conf.Headers)
	if err != nil {
		return nil, err
	}

	pageTitle = conf.PageTitle
	refresher = guide.NewRefresher(client, guide.NewStore(), guide.Options{
		PageTitle:     conf.PageTitle,
		ProfileName:   conf.ProfileName,
		ExcludeGroups: conf.ExcludeGroups,
	})

	// initial refresh; on failure the synthesized error page is installed
	// and the scheduler retries later
	if _, err = refresher.Refresh(ctx); err != nil {
		logger.Error("Initial cache refresh failed.", zap.Error(err))
	}

	// run the scheduled refresh task
	Schedule(ctx, refresher, conf.Schedule)

	// create the Gin routing engine
	r := gin.New()

	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// rendered channel guide
	r.GET("/", GetGuidePage)
	// printable guide
	r.GET("/print", GetPrintPage)

	// cache health and manual refresh
	r.GET("/health", GetHealth)
	r.GET("/refresh", TriggerRefresh)

	// program queries against the cached index
	r.GET("/api/guide/current", GetCurrentProgram)
	r.GET("/api/guide/next", GetNextProgram)
	r.GET("/api/guide/grid", GetGridProjection)

	return r, nil
}
