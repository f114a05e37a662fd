// Package http exposes the Archivist engine over a JSON HTTP API.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/errors"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/engine"
)

// Handlers contains the HTTP handlers for the Archivist API.
type Handlers struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandlers creates handlers backed by the given engine.
func NewHandlers(eng *engine.Engine, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{engine: eng, logger: logger}
}

type generateRequest struct {
	PlayerID   string `json:"playerId" binding:"required"`
	Difficulty int    `json:"difficulty"`
}

type generateResponse struct {
	Fragment string `json:"fragment"`
}

type classifyRequest struct {
	PlayerID     string `json:"playerId" binding:"required"`
	GuessedAxiom string `json:"guessedAxiom" binding:"required"`
}

type classifyResponse struct {
	IsCorrect         bool   `json:"isCorrect"`
	TrueAxiom         string `json:"trueAxiom"`
	RevelationText    string `json:"revelationText"`
	NewScore          int    `json:"newScore"`
	NewStreak         int    `json:"newStreak"`
	NewHighestStreak  int    `json:"newHighestStreak"`
	NewDifficultyTier int    `json:"newDifficultyTier"`
}

type registerRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

type profileResponse struct {
	PlayerID       string `json:"playerId"`
	CurrentScore   int    `json:"currentScore"`
	CurrentStreak  int    `json:"currentStreak"`
	HighestStreak  int    `json:"highestStreak"`
	DifficultyTier int    `json:"difficultyTier"`
}

// HandleGenerateFragment handles POST /api/generate_fragment.
func (h *Handlers) HandleGenerateFragment(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.Wrap(apperrors.CodeValidation, "playerId is required", err))
		return
	}

	difficulty := req.Difficulty
	if difficulty < 1 {
		// Omitted or invalid difficulty defaults to tier 1.
		difficulty = 1
	}

	fragment, err := h.engine.CreateSession(c.Request.Context(), req.PlayerID, difficulty)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// The secret axiom and revelation stay server-side.
	c.JSON(http.StatusOK, generateResponse{Fragment: fragment})
}

// HandleClassifyFragment handles POST /api/classify_fragment.
func (h *Handlers) HandleClassifyFragment(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.Wrap(apperrors.CodeValidation, "playerId and guessedAxiom are required", err))
		return
	}

	guessed, err := axiom.Parse(req.GuessedAxiom)
	if err != nil {
		code := apperrors.CodeAxiomUnknown
		if errors.Is(err, axiom.ErrEmptyAxiom) {
			code = apperrors.CodeAxiomEmpty
		}
		h.writeError(c, apperrors.Wrap(code, "guessed axiom is invalid", err))
		return
	}

	verdict, err := h.engine.Classify(c.Request.Context(), req.PlayerID, guessed)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, classifyResponse{
		IsCorrect:         verdict.IsCorrect,
		TrueAxiom:         verdict.TrueAxiom.String(),
		RevelationText:    verdict.RevelationText,
		NewScore:          verdict.Profile.CurrentScore,
		NewStreak:         verdict.Profile.CurrentStreak,
		NewHighestStreak:  verdict.Profile.HighestStreak,
		NewDifficultyTier: verdict.Profile.DifficultyTier,
	})
}

// HandleRegisterPlayer handles POST /api/register_player.
func (h *Handlers) HandleRegisterPlayer(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.Wrap(apperrors.CodeValidation, "playerId is required", err))
		return
	}

	profile, err := h.engine.RegisterPlayer(c.Request.Context(), req.PlayerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		PlayerID:       profile.PlayerID,
		CurrentScore:   profile.CurrentScore,
		CurrentStreak:  profile.CurrentStreak,
		HighestStreak:  profile.HighestStreak,
		DifficultyTier: profile.DifficultyTier,
	})
}

// HandleGetProfile handles GET /api/player/:id/profile.
func (h *Handlers) HandleGetProfile(c *gin.Context) {
	profile, err := h.engine.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		PlayerID:       profile.PlayerID,
		CurrentScore:   profile.CurrentScore,
		CurrentStreak:  profile.CurrentStreak,
		HighestStreak:  profile.HighestStreak,
		DifficultyTier: profile.DifficultyTier,
	})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "code", code, "error", err)
	}
	c.JSON(status, gin.H{
		"code":  string(code),
		"error": err.Error(),
	})
}
