package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ytxtract/internal/app"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

type submitRequest struct {
	Input string `json:"input"`
}

type answerRequest struct {
	Yes   bool `json:"yes"`
	Index int  `json:"index"`
	OK    bool `json:"ok"`
}

type settingRequest struct {
	Value string `json:"value"`
}

// handleSubmit starts a job from pasted input.
func (s *Server) handleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	id, err := s.ctrl.Submit(c.UserContext(), req.Input)
	switch {
	case errors.Is(err, errconsts.ErrJobActive):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return errorJSON(c, fiber.StatusBadRequest, errconsts.UserMessage(errconsts.KindOf(err)))
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id})
}

type promptView struct {
	Kind     string                 `json:"kind"`
	Question string                 `json:"question"`
	Options  []string               `json:"options,omitempty"`
	Variants []models.FormatVariant `json:"variants,omitempty"`
}

type resultView struct {
	Status     string                 `json:"status"`
	Reason     string                 `json:"reason,omitempty"`
	OutputPath string                 `json:"output_path,omitempty"`
	FileSizeMB float64                `json:"file_size_mb"`
	Fallback   bool                   `json:"fallback,omitempty"`
	Sequence   *models.SequenceResult `json:"sequence,omitempty"`
}

type jobView struct {
	models.JobState
	Progress float64     `json:"progress"`
	Prompt   *promptView `json:"prompt,omitempty"`
	Result   *resultView `json:"result,omitempty"`
}

// handleCurrentJob reports the active or last job.
func (s *Server) handleCurrentJob(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := jobView{JobState: s.ctrl.State(), Progress: s.progress}
	if s.status != "" {
		v.Status = s.status
	}
	if p := s.prompt; p != nil {
		v.Prompt = viewPrompt(p)
	}
	if r := s.last; r != nil {
		v.Result = &resultView{
			Status:     r.Outcome.Status.String(),
			Reason:     r.Outcome.Reason,
			OutputPath: r.Outcome.OutputPath,
			FileSizeMB: r.Outcome.FileSizeMB,
			Fallback:   r.Outcome.Fallback,
			Sequence:   r.Sequence,
		}
	}
	return c.JSON(v)
}

// handleCancel cancels the active job.
func (s *Server) handleCancel(c *fiber.Ctx) error {
	if !s.ctrl.Active() {
		return errorJSON(c, fiber.StatusNotFound, "no active job")
	}
	s.ctrl.Cancel()
	return c.SendStatus(fiber.StatusAccepted)
}

// handleAnswer answers the pending prompt.
func (s *Server) handleAnswer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	s.mu.Lock()
	p := s.prompt
	s.prompt = nil
	s.mu.Unlock()

	if p == nil {
		return errorJSON(c, fiber.StatusNotFound, "no pending prompt")
	}
	if p.Kind == app.PromptFormat && req.OK && (req.Index < 0 || req.Index >= len(p.Variants)) {
		s.mu.Lock()
		s.prompt = p
		s.mu.Unlock()
		return errorJSON(c, fiber.StatusBadRequest, "format index out of range")
	}

	p.Answer(app.PromptReply{Yes: req.Yes, Index: req.Index, OK: req.OK})
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	entries, err := s.history.List()
	if err != nil {
		logging.E("Failed to list history: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to read history")
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return c.JSON(entries)
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	st, err := s.stats.Get()
	if err != nil {
		logging.E("Failed to read stats: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to read stats")
	}
	return c.JSON(st)
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(s.settings.Settings())
}

// handleSetSetting changes one setting and saves the document.
func (s *Server) handleSetSetting(c *fiber.Ctx) error {
	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	key := strings.TrimSpace(c.Params("key"))
	if err := s.settings.Set(key, req.Value); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.settings.Settings())
}
