package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynguyendang/formalmath/pkg/common/errors"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// handleSystems returns a list of available formal systems.
func (s *Server) handleSystems(c *gin.Context) {
	systems, err := s.manager.ListSystems()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, systems)
}

// handleSystemDetail returns the constants, axioms, and theorems of one
// system. Loading the system proof-checks every theorem in it.
func (s *Server) handleSystemDetail(c *gin.Context) {
	sys, err := s.manager.GetSystem(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":      sys.Name(),
		"constants": sys.Constants(),
		"axioms":    sys.Axioms(),
		"theorems":  sys.Theorems(),
	})
}

// handleVerify replays a theorem's proof and returns the result, with the
// full step trace when detailed is set.
func (s *Server) handleVerify(c *gin.Context) {
	var req struct {
		System   string `json:"system"`
		Theorem  string `json:"theorem"`
		Detailed bool   `json:"detailed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	if req.System == "" || req.Theorem == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing system or theorem", nil))
		return
	}

	sys, err := s.manager.GetSystem(req.System)
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := sys.Verify(req.Theorem, req.Detailed)
	if err != nil {
		var verr *proof.VerifyError
		if stderrors.As(err, &verr) {
			appErr := errors.MapError(err)
			c.JSON(appErr.Code, gin.H{
				"error":    appErr.Message,
				"reason":   verr.Err.Error(),
				"step":     verr.Step,
				"ref":      verr.Ref,
				"expected": verr.Expected,
				"found":    verr.Found,
			})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleSymbols ranks a system's assertion labels by similarity to the
// query string.
func (s *Server) handleSymbols(c *gin.Context) {
	systemID := c.Query("system")
	query := c.Query("q")
	if systemID == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing system ID", nil))
		return
	}

	sys, err := s.manager.GetSystem(systemID)
	if err != nil {
		handleError(c, err)
		return
	}

	labels := sys.Labels()
	if query != "" {
		labels = proof.Suggest(query, labels)
	}
	c.JSON(http.StatusOK, gin.H{"symbols": labels})
}

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
