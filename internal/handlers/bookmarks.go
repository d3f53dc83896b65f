package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/models"
)

const bookmarkFieldMaxLength = 200

// ListBookmarks returns all bookmarks matching the conjunction of the
// optional searchQuery/category/favorite filters.
func (h *Handler) ListBookmarks(c *gin.Context) {
	searchQuery := strings.TrimSpace(c.Query("searchQuery"))
	categoryParam := strings.TrimSpace(c.Query("category"))
	favoriteOnly := c.Query("favorite") == "true"

	query := `SELECT id, url, title, category_id, favorite FROM bookmarks`
	var conditions []string
	var args []interface{}

	if searchQuery != "" {
		args = append(args, "%"+escapeLikePattern(strings.ToLower(searchQuery))+"%")
		conditions = append(conditions, fmt.Sprintf("lower(title) LIKE $%d", len(args)))
	}

	if categoryParam != "" {
		categoryID, err := strconv.Atoi(categoryParam)
		if err != nil {
			// An unresolvable category id matches nothing.
			c.JSON(http.StatusOK, []models.Bookmark{})
			return
		}
		args = append(args, categoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if favoriteOnly {
		conditions = append(conditions, "favorite = TRUE")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := h.db.Query(query, args...)
	if err != nil {
		h.log.Error("retrieving bookmarks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving bookmarks"})
		return
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		var bookmark models.Bookmark
		var categoryID sql.NullInt64

		if err := rows.Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title, &categoryID, &bookmark.Favorite); err != nil {
			h.log.Error("scanning bookmark", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning bookmark"})
			return
		}

		if categoryID.Valid {
			id := int(categoryID.Int64)
			bookmark.CategoryID = &id
		}

		bookmarks = append(bookmarks, bookmark)
	}

	c.JSON(http.StatusOK, bookmarks)
}

type createBookmarkRequest struct {
	Title      *string `json:"title"`
	URL        *string `json:"url"`
	CategoryID *int    `json:"category_id"`
	Favorite   *bool   `json:"favorite"`
}

// CreateBookmark creates a bookmark in an existing category.
func (h *Handler) CreateBookmark(c *gin.Context) {
	var req createBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CategoryID == nil || *req.CategoryID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required."})
		return
	}

	exists, err := h.categoryExists(*req.CategoryID)
	if err != nil {
		h.log.Error("checking category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking category"})
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found."})
		return
	}

	errs := fieldErrors{}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		errs.add("title", msgFieldRequired)
	} else if utf8.RuneCountInString(title) > bookmarkFieldMaxLength {
		errs.add("title", msgMaxLength200)
	}

	url := ""
	if req.URL != nil {
		url = strings.TrimSpace(*req.URL)
		if utf8.RuneCountInString(url) > bookmarkFieldMaxLength {
			errs.add("url", msgMaxLength200)
		}
	}

	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	favorite := req.Favorite != nil && *req.Favorite

	var bookmarkID int
	insertQuery := `INSERT INTO bookmarks (url, title, category_id, favorite)
		VALUES ($1, $2, $3, $4) RETURNING id`
	err = h.db.QueryRow(insertQuery, url, title, *req.CategoryID, favorite).Scan(&bookmarkID)
	if err != nil {
		h.log.Error("creating bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating bookmark"})
		return
	}

	h.log.Info("bookmark created", zap.Int("bookmark_id", bookmarkID))
	c.JSON(http.StatusCreated, models.Bookmark{
		ID:         bookmarkID,
		URL:        url,
		Title:      title,
		CategoryID: req.CategoryID,
		Favorite:   favorite,
	})
}

// GetBookmark returns a single bookmark by id.
func (h *Handler) GetBookmark(c *gin.Context) {
	bookmark, ok := h.fetchBookmark(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

type updateBookmarkRequest struct {
	Title    *string `json:"title"`
	URL      *string `json:"url"`
	Favorite *bool   `json:"favorite"`
	// Raw so an explicit null (clear the category) can be told apart
	// from an absent field (leave it untouched).
	CategoryID json.RawMessage `json:"category_id"`
}

// UpdateBookmark applies a partial update: only supplied fields are
// validated and written.
func (h *Handler) UpdateBookmark(c *gin.Context) {
	bookmark, ok := h.fetchBookmark(c)
	if !ok {
		return
	}

	var req updateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	errs := fieldErrors{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			errs.add("title", msgFieldBlank)
		} else if utf8.RuneCountInString(title) > bookmarkFieldMaxLength {
			errs.add("title", msgMaxLength200)
		} else {
			bookmark.Title = title
		}
	}

	if req.URL != nil {
		url := strings.TrimSpace(*req.URL)
		if utf8.RuneCountInString(url) > bookmarkFieldMaxLength {
			errs.add("url", msgMaxLength200)
		} else {
			bookmark.URL = url
		}
	}

	if len(req.CategoryID) > 0 {
		if string(req.CategoryID) == "null" {
			bookmark.CategoryID = nil
		} else {
			var categoryID int
			if err := json.Unmarshal(req.CategoryID, &categoryID); err != nil {
				errs.add("category_id", "Category not found.")
			} else {
				exists, err := h.categoryExists(categoryID)
				if err != nil {
					h.log.Error("checking category", zap.Error(err))
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking category"})
					return
				}
				if !exists {
					errs.add("category_id", "Category not found.")
				} else {
					bookmark.CategoryID = &categoryID
				}
			}
		}
	}

	if req.Favorite != nil {
		bookmark.Favorite = *req.Favorite
	}

	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	updateQuery := `UPDATE bookmarks SET url = $1, title = $2, category_id = $3, favorite = $4 WHERE id = $5`
	if _, err := h.db.Exec(updateQuery, bookmark.URL, bookmark.Title, nullableInt(bookmark.CategoryID), bookmark.Favorite, bookmark.ID); err != nil {
		h.log.Error("updating bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating bookmark"})
		return
	}

	c.JSON(http.StatusOK, bookmark)
}

// DeleteBookmark removes a bookmark by id.
func (h *Handler) DeleteBookmark(c *gin.Context) {
	bookmarkID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	result, err := h.db.Exec(`DELETE FROM bookmarks WHERE id = $1`, bookmarkID)
	if err != nil {
		h.log.Error("deleting bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting bookmark"})
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		h.log.Error("reading delete result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting bookmark"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) fetchBookmark(c *gin.Context) (models.Bookmark, bool) {
	var bookmark models.Bookmark

	bookmarkID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return bookmark, false
	}

	var categoryID sql.NullInt64
	query := `SELECT id, url, title, category_id, favorite FROM bookmarks WHERE id = $1`
	err = h.db.QueryRow(query, bookmarkID).Scan(&bookmark.ID, &bookmark.URL, &bookmark.Title, &categoryID, &bookmark.Favorite)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
			return bookmark, false
		}
		h.log.Error("retrieving bookmark", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving bookmark"})
		return bookmark, false
	}

	if categoryID.Valid {
		id := int(categoryID.Int64)
		bookmark.CategoryID = &id
	}

	return bookmark, true
}

func (h *Handler) categoryExists(categoryID int) (bool, error) {
	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
	return exists, err
}

func nullableInt(value *int) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// escapeLikePattern neutralizes LIKE metacharacters so user input is
// matched as a literal substring.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
