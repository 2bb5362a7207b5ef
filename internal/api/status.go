package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Suppliers   []string     `json:"suppliers"`
	Sites       []string     `json:"sites"`
	TargetMonth string       `json:"targetMonth"`
	LastRun     *RunResponse `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	st := h.runner.Status()
	resp := StatusResponse{
		Suppliers:   st.Suppliers,
		Sites:       st.Sites,
		TargetMonth: st.TargetMonth,
	}
	if st.LastRun != nil {
		resp.LastRun = newRunResponse(st.LastRun)
	}
	c.JSON(http.StatusOK, resp)
}
