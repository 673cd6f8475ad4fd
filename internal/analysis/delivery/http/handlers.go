package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/events"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
	"github.com/amankumarsingh77/hoopcast/pkg/utils"
)

const keepAliveInterval = 15 * time.Second

type analysisHandler struct {
	analysisUC analysis.UseCase
	bus        *events.Bus
	logger     logger.Logger
}

func NewAnalysisHandler(analysisUC analysis.UseCase, bus *events.Bus, logger logger.Logger) analysis.Handler {
	return &analysisHandler{
		analysisUC: analysisUC,
		bus:        bus,
		logger:     logger,
	}
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"error": message})
}

// Upload accepts a multipart form with the clip in "video" and an optional
// model credential in "api_key".
func (h *analysisHandler) Upload() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("video")
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, "No video file provided")
		}
		if fileHeader.Filename == "" {
			return errorResponse(c, http.StatusBadRequest, "No file selected")
		}
		if !utils.AllowedVideoFile(fileHeader.Filename) {
			return errorResponse(c, http.StatusBadRequest, "Invalid file type")
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Errorf("Upload - Open error: %v", err)
			return errorResponse(c, http.StatusBadRequest, "Could not read uploaded file")
		}
		defer file.Close()

		resp, err := h.analysisUC.Upload(c.Request().Context(), &models.VideoUploadInput{
			Filename:   fileHeader.Filename,
			Credential: c.FormValue("api_key"),
			File:       file,
		})
		if err != nil {
			var inputErr *analysis.InputError
			if errors.As(err, &inputErr) {
				return errorResponse(c, http.StatusBadRequest, inputErr.Reason)
			}
			h.logger.Errorf("Upload - request %s: %v", utils.GetRequestID(c), err)
			return errorResponse(c, http.StatusInternalServerError, "Failed to start processing")
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func (h *analysisHandler) GetStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.analysisUC.GetStatus(c.Request().Context(), c.Param("session_id"))
		if err != nil {
			if errors.Is(err, analysis.ErrJobNotFound) {
				return errorResponse(c, http.StatusNotFound, "Session not found")
			}
			return errorResponse(c, http.StatusInternalServerError, "Failed to read session")
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *analysisHandler) ListSessions() echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := h.analysisUC.ListSessions(c.Request().Context())
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, "Failed to list sessions")
		}
		return c.JSON(http.StatusOK, list)
	}
}

// Download serves the rendered clip as an attachment. With ?remote=true and
// an archived output the client is redirected to a presigned URL instead.
func (h *analysisHandler) Download() echo.HandlerFunc {
	return func(c echo.Context) error {
		remote, _ := strconv.ParseBool(c.QueryParam("remote"))
		out, err := h.analysisUC.GetOutput(c.Request().Context(), c.Param("session_id"), remote)
		if err != nil {
			return h.outputError(c, err)
		}
		if out.RemoteURL != "" {
			return c.Redirect(http.StatusTemporaryRedirect, out.RemoteURL)
		}
		return c.Attachment(out.Path, out.Name)
	}
}

// Preview streams the rendered clip inline for playback in the browser.
func (h *analysisHandler) Preview() echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := h.analysisUC.GetOutput(c.Request().Context(), c.Param("session_id"), false)
		if err != nil {
			return h.outputError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentType, "video/mp4")
		return c.File(out.Path)
	}
}

func (h *analysisHandler) outputError(c echo.Context, err error) error {
	if errors.Is(err, analysis.ErrNotReady) {
		return errorResponse(c, http.StatusNotFound, "Video not ready or session not found")
	}
	h.logger.Errorf("output - request %s: %v", utils.GetRequestID(c), err)
	return errorResponse(c, http.StatusInternalServerError, "Failed to read output")
}

// StreamEvents pushes the job state as server-sent events until the job
// reaches a terminal state or the client goes away.
func (h *analysisHandler) StreamEvents() echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Param("session_id")
		ctx := c.Request().Context()

		job, err := h.analysisUC.GetStatus(ctx, sessionID)
		if err != nil {
			if errors.Is(err, analysis.ErrJobNotFound) {
				return errorResponse(c, http.StatusNotFound, "Session not found")
			}
			return errorResponse(c, http.StatusInternalServerError, "Failed to read session")
		}

		// Subscribe before sending the snapshot so no transition is lost in between.
		ch := h.bus.Subscribe(sessionID)
		defer h.bus.Unsubscribe(sessionID, ch)

		w := c.Response()
		// The stream outlives the server's WriteTimeout.
		if err := http.NewResponseController(w.Writer).SetWriteDeadline(time.Time{}); err != nil {
			h.logger.Debugf("StreamEvents - SetWriteDeadline: %v", err)
		}
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		snapshot := events.Event{
			Type:      "status",
			SessionID: sessionID,
			Status:    job.Status,
			Progress:  job.Progress,
			Message:   job.Error,
		}
		if err := sseWrite(w, snapshot); err != nil || job.Status.IsTerminal() {
			return nil
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return nil
				}
				w.Flush()
			case ev, ok := <-ch:
				if !ok {
					return nil
				}
				if err := sseWrite(w, ev); err != nil || ev.Status.IsTerminal() {
					return nil
				}
			}
		}
	}
}

func sseWrite(w *echo.Response, ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
