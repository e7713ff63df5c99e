package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) health(c *gin.Context) {
	if err := s.svc.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fleetcost",
	})
}

func (s *Server) calculate(c *gin.Context) {
	// An empty body calculates with the stored defaults.
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(c, "invalid calculation request: "+err.Error())
		return
	}

	summary, err := s.svc.Calculate(c.Request.Context(), req.Scenario())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCalculationResponse(summary))
}

func (s *Server) listEnergies(c *gin.Context) {
	energies, err := s.svc.ListEnergies(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]EnergyDTO, 0, len(energies))
	for _, e := range energies {
		out = append(out, newEnergyDTO(e))
	}
	c.JSON(http.StatusOK, out)
}

// getEnergy looks up by code; the segment shares its name with the id routes.
func (s *Server) getEnergy(c *gin.Context) {
	e, err := s.svc.GetEnergy(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEnergyDTO(e))
}

func (s *Server) createEnergy(c *gin.Context) {
	var dto EnergyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		writeBadRequest(c, "invalid energy: "+err.Error())
		return
	}
	e, err := dto.toDomain()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	created, err := s.svc.CreateEnergy(c.Request.Context(), e)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", "/api/admin/energies/"+created.Code)
	c.JSON(http.StatusCreated, newEnergyDTO(created))
}

func (s *Server) updateEnergy(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var dto EnergyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		writeBadRequest(c, "invalid energy: "+err.Error())
		return
	}
	e, err := dto.toDomain()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	updated, err := s.svc.UpdateEnergy(c.Request.Context(), id, e)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEnergyDTO(updated))
}

func (s *Server) deleteEnergy(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteEnergy(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// upsertComponent serves both the create and the update route; the latter
// takes the component id from the path.
func (s *Server) upsertComponent(c *gin.Context) {
	energyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var dto ComponentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		writeBadRequest(c, "invalid cost component: "+err.Error())
		return
	}
	if c.Param("componentId") != "" {
		componentID, ok := uuidParam(c, "componentId")
		if !ok {
			return
		}
		dto.ID = componentID
	}
	component, err := dto.toDomain()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	saved, err := s.svc.UpsertComponent(c.Request.Context(), energyID, component)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newComponentDTO(saved))
}

func (s *Server) deleteComponent(c *gin.Context) {
	id, ok := uuidParam(c, "componentId")
	if !ok {
		return
	}
	if err := s.svc.DeleteComponent(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listParameters(c *gin.Context) {
	params, err := s.svc.ListParameters(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]ParameterDTO, 0, len(params))
	for _, p := range params {
		out = append(out, newParameterDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) upsertParameter(c *gin.Context) {
	var dto ParameterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		writeBadRequest(c, "invalid parameter: "+err.Error())
		return
	}
	p, err := dto.toDomain()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	saved, err := s.svc.UpsertParameter(c.Request.Context(), c.Param("key"), p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newParameterDTO(saved))
}

func (s *Server) importEnergies(c *gin.Context) {
	report, err := s.svc.ImportEnergies(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) importParameters(c *gin.Context) {
	n, err := s.svc.ImportParameters(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parameters": n})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		writeBadRequest(c, "invalid "+name+": "+c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}
