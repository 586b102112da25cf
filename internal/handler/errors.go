package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forummlcb/topdup/internal/model"
)

var kindStatus = map[model.ErrorKind]int{
	model.KindNotFound:            http.StatusNotFound,
	model.KindDuplicatePair:       http.StatusConflict,
	model.KindUnauthenticated:     http.StatusUnauthorized,
	model.KindInvalidPage:         http.StatusBadRequest,
	model.KindUpstreamUnavailable: http.StatusBadGateway,
}

// respondError maps a domain error to its HTTP status, keeping the kind tag
// in the body so clients can branch without parsing messages.
func respondError(c *gin.Context, err error) {
	kind := model.ErrKind(err)
	status, ok := kindStatus[kind]
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"kind": string(kind), "error": err.Error()})
}
