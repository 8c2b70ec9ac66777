// Package fakeapi is an in-memory stand-in for the remote records API. It
// serves the same routes under /api and is used for local runs and tests.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/model"
)

// Request is a recorded call, kept so tests can assert on payloads.
type Request struct {
	Method string
	Path   string
	Body   string
}

type Seed struct {
	Contractors []model.Contractor
	Employees   []model.Employee
	Invoices    []model.Invoice
	Delegations []model.Delegation
}

type failure struct {
	method string
	path   string
	status int
}

type Server struct {
	mu          sync.Mutex
	nextID      int
	contractors []model.Contractor
	employees   []model.Employee
	invoices    []model.Invoice
	delegations []model.Delegation
	requests    []Request
	failures    []failure
	log         zerolog.Logger
}

func New(log zerolog.Logger) *Server {
	return &Server{nextID: 1, log: log}
}

// Seed replaces the collections. Records without an id get one minted.
func (s *Server) Seed(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contractors = seedRows(s, seed.Contractors, func(c *model.Contractor, id model.ID) { c.ID = id })
	s.employees = seedRows(s, seed.Employees, func(e *model.Employee, id model.ID) { e.ID = id })
	s.invoices = seedRows(s, seed.Invoices, func(i *model.Invoice, id model.ID) { i.ID = id })
	s.delegations = seedRows(s, seed.Delegations, func(d *model.Delegation, id model.ID) { d.ID = id })
}

func seedRows[T model.Record](s *Server, rows []T, assign func(*T, model.ID)) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if row.RecordID() == "" {
			assign(&row, s.mint())
		}
		out = append(out, row)
	}
	return out
}

func (s *Server) mint() model.ID {
	id := model.ID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

// FailNext makes the next request matching method and path answer status.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status})
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) Contractors() []model.Contractor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Contractor(nil), s.contractors...)
}

func (s *Server) Invoices() []model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Invoice(nil), s.invoices...)
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.record)

	api := router.Group("/api")
	api.GET("/contractors", listHandler(s, func() []model.Contractor { return s.contractors }))
	api.POST("/contractors", s.createContractor)
	api.PUT("/contractors/:id", updateHandler(s, &s.contractors))
	api.DELETE("/contractors/:id", s.deleteContractor)
	api.GET("/employees", listHandler(s, func() []model.Employee { return s.employees }))
	api.GET("/invoices", listHandler(s, func() []model.Invoice { return s.invoices }))
	api.PUT("/invoices/:id", updateHandler(s, &s.invoices))
	api.GET("/delegations", listHandler(s, func() []model.Delegation { return s.delegations }))

	return router
}

// Run serves the fake API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path, Body: string(body)})
	status := 0
	for i, f := range s.failures {
		if f.method == c.Request.Method && f.path == c.Request.URL.Path {
			status = f.status
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if status != 0 {
		s.log.Debug().Str("path", c.Request.URL.Path).Int("status", status).Msg("injected failure")
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func listHandler[T model.Record](s *Server, rows func() []T) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		out := append([]T{}, rows()...)
		s.mu.Unlock()
		c.JSON(http.StatusOK, out)
	}
}

func updateHandler[T model.Record](s *Server, rows *[]T) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]json.RawMessage
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := model.ID(c.Param("id"))
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, row := range *rows {
			if row.RecordID() != id {
				continue
			}
			merged, err := merge(row, patch)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			(*rows)[i] = merged
			c.JSON(http.StatusOK, merged)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
}

func (s *Server) createContractor(c *gin.Context) {
	var rec model.Contractor
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	rec.ID = s.mint()
	s.contractors = append(s.contractors, rec)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) deleteContractor(c *gin.Context) {
	id := model.ID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.contractors {
		if row.ID == id {
			s.contractors = append(s.contractors[:i], s.contractors[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// merge overlays the patch keys onto rec; the id is never patched.
func merge[T any](rec T, patch map[string]json.RawMessage) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, err
	}
	for key, value := range patch {
		if key == "id" {
			continue
		}
		fields[key] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(merged, &out)
	return out, err
}
