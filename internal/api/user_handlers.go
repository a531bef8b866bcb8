package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validRoles = map[string]struct{}{
	"employee":    {},
	"admin":       {},
	"super_admin": {},
}

type userRecord struct {
	ID             int64  `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, employee_number, username, email, role, status
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	defer rows.Close()

	users := make([]userRecord, 0)
	for rows.Next() {
		var u userRecord
		if err := rows.Scan(&u.ID, &u.EmployeeNumber, &u.Username, &u.Email, &u.Role, &u.Status); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to fetch users")
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	respondData(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EmployeeNumber string `json:"employeeNumber"`
		Username       string `json:"username"`
		Email          string `json:"email"`
		Role           string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	in.EmployeeNumber = strings.TrimSpace(in.EmployeeNumber)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = "employee"
	}

	if in.EmployeeNumber == "" || in.Username == "" || in.Email == "" {
		respondError(w, http.StatusBadRequest, "employeeNumber, username and email are required")
		return
	}
	if !emailRe.MatchString(in.Email) {
		respondError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if _, ok := validRoles[in.Role]; !ok {
		respondError(w, http.StatusBadRequest, "role must be employee, admin or super_admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO users(employee_number, username, email, role, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id
	`, in.EmployeeNumber, in.Username, in.Email, in.Role).Scan(&id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			respondError(w, http.StatusConflict, "employee number or email already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	respondData(w, http.StatusCreated, userRecord{
		ID:             id,
		EmployeeNumber: in.EmployeeNumber,
		Username:       in.Username,
		Email:          in.Email,
		Role:           in.Role,
		Status:         "active",
	})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = "active"
	}
	if in.Username == "" || in.Email == "" || in.Role == "" {
		respondError(w, http.StatusBadRequest, "username, email and role are required")
		return
	}
	if !emailRe.MatchString(in.Email) {
		respondError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if _, ok := validRoles[in.Role]; !ok {
		respondError(w, http.StatusBadRequest, "role must be employee, admin or super_admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, role = $3, status = $4
		WHERE id = $5
	`, in.Username, in.Email, in.Role, in.Status, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if res.RowsAffected() == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondData(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if callerID, ok := authUserID(r); ok && callerID == id {
		respondError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.db.Exec(ctx, `
		UPDATE users SET status = 'inactive' WHERE id = $1
	`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if res.RowsAffected() == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondData(w, http.StatusOK, map[string]any{"ok": true})
}
