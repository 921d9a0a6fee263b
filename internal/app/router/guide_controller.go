package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/guide"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultGridHours = 6
	maxGridHours     = 24
)

// GetGuidePage serves the cached guide artifact. Stale data keeps serving
// after a failed refresh; only before the first success is the artifact the
// synthesized error page.
func GetGuidePage(c *gin.Context) {
	gen := refresher.Store().Read()
	if gen == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(gen.HTML))
}

// GetPrintPage serves the printable guide. An optional groups query parameter
// restricts the output to a comma-separated list of group names.
func GetPrintPage(c *gin.Context) {
	gen := refresher.Store().Read()
	if gen == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	var selected []string
	if raw := c.Query("groups"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				selected = append(selected, name)
			}
		}
	}

	html := guide.RenderPrint(gen.Channels, gen.Groups, gen.Logos, pageTitle, selected)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetHealth reports cache state.
func GetHealth(c *gin.Context) {
	gen := refresher.Store().Read()
	if gen == nil {
		c.PureJSON(http.StatusOK, gin.H{"status": "starting"})
		return
	}

	status := "healthy"
	if gen.LastError != "" {
		status = "degraded"
	}
	c.PureJSON(http.StatusOK, gin.H{
		"status":       status,
		"last_updated": gen.UpdatedAt.Format(time.RFC3339),
		"channels":     len(gen.Channels),
		"error":        gen.LastError,
	})
}

// TriggerRefresh runs a synchronous refresh and reports the outcome. It
// shares the refresher's single-flight lock with the scheduled task, so a
// manual trigger never races a scheduled one.
func TriggerRefresh(c *gin.Context) {
	gen, err := refresher.Refresh(c.Request.Context())
	if err != nil {
		logger.Error("Manual refresh failed.", zap.Error(err))
		c.PureJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.PureJSON(http.StatusOK, gin.H{"refreshed_at": gen.UpdatedAt.Format(time.RFC3339)})
}

// programResponse is the JSON shape of a matched program.
type programResponse struct {
	Title    string `json:"title"`
	SubTitle string `json:"sub_title,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func toProgramResponse(entry guide.ProgramEntry) programResponse {
	return programResponse{
		Title:    entry.Title,
		SubTitle: entry.SubTitle,
		Start:    entry.Start.Format(time.RFC3339),
		End:      entry.End.Format(time.RFC3339),
	}
}

// queryInstant reads the ch and t query parameters; t defaults to now.
func queryInstant(c *gin.Context) (string, time.Time, bool) {
	key := c.Query("ch")
	if key == "" {
		logger.Warn("The channel key is null.")
		c.Status(http.StatusBadRequest)
		return "", time.Time{}, false
	}

	at := time.Now().UTC()
	if raw := c.Query("t"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return "", time.Time{}, false
		}
		at = parsed.UTC()
	}
	return key, at, true
}

// GetCurrentProgram returns the program airing on the channel at the instant.
func GetCurrentProgram(c *gin.Context) {
	key, at, ok := queryInstant(c)
	if !ok {
		return
	}

	gen := refresher.Store().Read()
	if gen == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	entry, ok := gen.Index.Current(key, at)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.PureJSON(http.StatusOK, toProgramResponse(entry))
}

// GetNextProgram returns the first program starting after the instant.
func GetNextProgram(c *gin.Context) {
	key, at, ok := queryInstant(c)
	if !ok {
		return
	}

	gen := refresher.Store().Read()
	if gen == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	entry, ok := gen.Index.Next(key, at)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.PureJSON(http.StatusOK, toProgramResponse(entry))
}

// GetGridProjection returns the pixel-space grid for a display window. The
// window is selected either by an explicit UTC start (start, RFC3339) or by a
// client-local date and hour (date=YYYY-MM-DD, hour) combined with offset,
// the client's UTC offset in minutes east.
func GetGridProjection(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	hours, err := strconv.Atoi(c.DefaultQuery("hours", strconv.Itoa(defaultGridHours)))
	if err != nil || hours < 1 || hours > maxGridHours {
		c.Status(http.StatusBadRequest)
		return
	}

	var winStart, winEnd time.Time
	switch {
	case c.Query("start") != "":
		winStart, err = time.Parse(time.RFC3339, c.Query("start"))
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		winStart = winStart.UTC()
		winEnd = winStart.Add(time.Duration(hours) * time.Hour)
	default:
		// client-local selection; default to the current local hour today
		localNow := time.Now().UTC().Add(time.Duration(offset) * time.Minute)
		day := localNow
		if raw := c.Query("date"); raw != "" {
			day, err = time.Parse("2006-01-02", raw)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
		}
		hour := localNow.Hour()
		if raw := c.Query("hour"); raw != "" {
			if hour, err = strconv.Atoi(raw); err != nil || hour < 0 || hour > 23 {
				c.Status(http.StatusBadRequest)
				return
			}
		}
		winStart, winEnd = guide.WindowFromLocal(day.Year(), day.Month(), day.Day(), hour, hours, offset)
	}

	gen := refresher.Store().Read()
	if gen == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	timeline, rows := guide.ProjectGrid(gen, winStart, winEnd, offset)
	c.PureJSON(http.StatusOK, gin.H{
		"window_start": winStart.Format(time.RFC3339),
		"window_end":   winEnd.Format(time.RFC3339),
		"timeline":     timeline,
		"rows":         rows,
	})
}
