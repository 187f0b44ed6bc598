package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c9s/rbtree/pkg/rbtree"
)

func (s *Server) routes(r *gin.Engine) {
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/keys", s.rateLimit(), s.insertKeys)
	r.GET("/api/keys/:key", s.searchKey)
	r.DELETE("/api/keys/:key", s.rateLimit(), s.deleteKey)

	r.GET("/api/tree", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Service.Snapshot())
	})

	r.GET("/api/tree/text", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := s.Service.Render(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.String(http.StatusOK, buf.String())
	})

	r.GET("/api/tree/verify", func(c *gin.Context) {
		if err := s.Service.Verify(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"valid": true})
	})
}

func (s *Server) insertKeys(c *gin.Context) {
	payload := struct {
		Keys []int64 `json:"keys"`
	}{}

	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing arguments"})
		return
	}

	if len(payload.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing keys argument"})
		return
	}

	s.Service.Insert(payload.Keys...)
	c.JSON(http.StatusOK, gin.H{"success": true, "size": s.Service.Len()})
}

func (s *Server) searchKey(c *gin.Context) {
	key, ok := parseKey(c)
	if !ok {
		return
	}

	h, err := s.Service.Search(key)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": h.Key(), "color": h.Color()})
}

func (s *Server) deleteKey(c *gin.Context) {
	key, ok := parseKey(c)
	if !ok {
		return
	}

	if err := s.Service.Delete(key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "size": s.Service.Len()})
}

func parseKey(c *gin.Context) (int64, bool) {
	key, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key must be an integer"})
		return 0, false
	}

	return key, true
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, rbtree.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": rbtree.ErrKeyNotFound.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
