package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stellar-client-go/internal/domain/model"
)

// AddUser registers an account that can log in with password.
func (s *Server) AddUser(user model.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Email] = &account{user: user, password: password}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) issue(email string) (string, string) {
	n := len(s.tokens) + 1
	for {
		if _, taken := s.tokens["tok"+strconv.Itoa(n)]; !taken {
			break
		}
		n++
	}
	access := "tok" + strconv.Itoa(n)
	s.tokens[access] = email
	return access, "ref" + strconv.Itoa(n)
}

func (s *Server) login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[in.Email]
	if !ok || acc.password != in.Password {
		s.mu.Unlock()
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	access, refresh := s.issue(in.Email)
	user := acc.user
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"user": user, "accessToken": access, "refreshToken": refresh})
}

func (s *Server) register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[in.Email]; exists {
		s.mu.Unlock()
		respondError(c, http.StatusConflict, "User already exists")
		return
	}
	user := model.User{ID: s.nextID("u"), Name: in.Name, Email: in.Email}
	s.accounts[in.Email] = &account{user: user, password: in.Password}
	access, refresh := s.issue(in.Email)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"user": user, "accessToken": access, "refreshToken": refresh})
}

func (s *Server) updateUser(c *gin.Context) {
	var in model.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	email := c.Param("email")
	s.mu.Lock()
	acc, ok := s.accounts[email]
	if !ok || c.GetString("email") != email {
		s.mu.Unlock()
		notFound(c, "user")
		return
	}
	if in.Name != "" {
		acc.user.Name = in.Name
	}
	if in.Password != "" {
		acc.password = in.Password
	}
	user := acc.user
	s.mu.Unlock()
	c.JSON(http.StatusOK, user)
}
