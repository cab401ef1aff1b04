package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CRUD surface over the persistence collaborator: users, favorite
// routes and per-user alert subscriptions. Duplicate rows surface as
// 409 conflicts, never as server errors.

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type userRow struct {
	ID          int64     `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

type favoriteRow struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RouteID   string    `json:"route_id"`
	RouteType string    `json:"route_type"`
	CreatedAt time.Time `json:"created_at"`
}

type alertRow struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RouteID   string    `json:"route_id"`
	AlertType string    `json:"alert_type"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser handles POST /api/users.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var body struct {
		FirebaseUID string `json:"firebase_uid"`
		Email       string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if body.FirebaseUID == "" || body.Email == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "missing required fields"})
	}

	var userID int64
	err := h.pool.QueryRow(c.Context(), `
		INSERT INTO users (firebase_uid, email)
		VALUES ($1, $2)
		RETURNING id
	`, body.FirebaseUID, body.Email).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "user already exists"})
		}
		return fiber.NewError(500, "failed to create user")
	}

	return c.JSON(fiber.Map{"success": true, "user_id": userID})
}

// GetUser handles GET /api/users/:firebase_uid.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	var user userRow
	err := h.pool.QueryRow(c.Context(), `
		SELECT id, firebase_uid, email, created_at
		FROM users
		WHERE firebase_uid = $1
	`, c.Params("firebase_uid")).Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "user not found"})
		}
		return fiber.NewError(500, "failed to load user")
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// GetFavorites handles GET /api/favorites?firebase_uid=...
func (h *Handlers) GetFavorites(c *fiber.Ctx) error {
	firebaseUID := c.Query("firebase_uid")
	if firebaseUID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "firebase_uid required"})
	}

	rows, err := h.pool.Query(c.Context(), `
		SELECT f.id, f.user_id, f.route_id, f.route_type, f.created_at
		FROM favorites f
		JOIN users u ON f.user_id = u.id
		WHERE u.firebase_uid = $1
		ORDER BY f.created_at
	`, firebaseUID)
	if err != nil {
		return fiber.NewError(500, "failed to load favorites")
	}
	defer rows.Close()

	favorites := []favoriteRow{}
	for rows.Next() {
		var f favoriteRow
		if err := rows.Scan(&f.ID, &f.UserID, &f.RouteID, &f.RouteType, &f.CreatedAt); err != nil {
			return fiber.NewError(500, "failed to load favorites")
		}
		favorites = append(favorites, f)
	}

	return c.JSON(fiber.Map{"success": true, "favorites": favorites})
}

// AddFavorite handles POST /api/favorites.
func (h *Handlers) AddFavorite(c *fiber.Ctx) error {
	var body struct {
		FirebaseUID string `json:"firebase_uid"`
		RouteID     string `json:"route_id"`
		RouteType   string `json:"route_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if body.FirebaseUID == "" || body.RouteID == "" || body.RouteType == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "missing required fields"})
	}

	userID, err := h.lookupUserID(c, body.FirebaseUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "user not found"})
		}
		return fiber.NewError(500, "failed to load user")
	}

	var favoriteID int64
	err = h.pool.QueryRow(c.Context(), `
		INSERT INTO favorites (user_id, route_id, route_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, body.RouteID, body.RouteType).Scan(&favoriteID)
	if err != nil {
		if isUniqueViolation(err) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "favorite already exists"})
		}
		return fiber.NewError(500, "failed to create favorite")
	}

	return c.JSON(fiber.Map{"success": true, "favorite_id": favoriteID})
}

// DeleteFavorite handles DELETE /api/favorites/:id.
func (h *Handlers) DeleteFavorite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid favorite id"})
	}

	if _, err := h.pool.Exec(c.Context(), `DELETE FROM favorites WHERE id = $1`, id); err != nil {
		return fiber.NewError(500, "failed to delete favorite")
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetUserAlerts handles GET /api/alerts?firebase_uid=...
func (h *Handlers) GetUserAlerts(c *fiber.Ctx) error {
	firebaseUID := c.Query("firebase_uid")
	if firebaseUID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "firebase_uid required"})
	}

	rows, err := h.pool.Query(c.Context(), `
		SELECT a.id, a.user_id, a.route_id, a.alert_type, a.enabled, a.created_at
		FROM alerts a
		JOIN users u ON a.user_id = u.id
		WHERE u.firebase_uid = $1
		ORDER BY a.created_at
	`, firebaseUID)
	if err != nil {
		return fiber.NewError(500, "failed to load alerts")
	}
	defer rows.Close()

	list := []alertRow{}
	for rows.Next() {
		var a alertRow
		if err := rows.Scan(&a.ID, &a.UserID, &a.RouteID, &a.AlertType, &a.Enabled, &a.CreatedAt); err != nil {
			return fiber.NewError(500, "failed to load alerts")
		}
		list = append(list, a)
	}

	return c.JSON(fiber.Map{"success": true, "alerts": list})
}

// CreateUserAlert handles POST /api/alerts.
func (h *Handlers) CreateUserAlert(c *fiber.Ctx) error {
	var body struct {
		FirebaseUID string `json:"firebase_uid"`
		RouteID     string `json:"route_id"`
		AlertType   string `json:"alert_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if body.FirebaseUID == "" || body.RouteID == "" || body.AlertType == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "missing required fields"})
	}

	userID, err := h.lookupUserID(c, body.FirebaseUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "user not found"})
		}
		return fiber.NewError(500, "failed to load user")
	}

	var alertID int64
	err = h.pool.QueryRow(c.Context(), `
		INSERT INTO alerts (user_id, route_id, alert_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, body.RouteID, body.AlertType).Scan(&alertID)
	if err != nil {
		return fiber.NewError(500, "failed to create alert")
	}

	return c.JSON(fiber.Map{"success": true, "alert_id": alertID})
}

// DeleteUserAlert handles DELETE /api/alerts/:id.
func (h *Handlers) DeleteUserAlert(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid alert id"})
	}

	if _, err := h.pool.Exec(c.Context(), `DELETE FROM alerts WHERE id = $1`, id); err != nil {
		return fiber.NewError(500, "failed to delete alert")
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handlers) lookupUserID(c *fiber.Ctx, firebaseUID string) (int64, error) {
	var userID int64
	err := h.pool.QueryRow(c.Context(), `
		SELECT id FROM users WHERE firebase_uid = $1
	`, firebaseUID).Scan(&userID)
	return userID, err
}
