package ticketControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

type CreateTicketInput struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ReplyInput struct {
	Message string `json:"message" binding:"required"`
}

type TicketStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// POST /api/tickets/create
func CreateTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CreateTicketInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ticket := models.Ticket{
			UserID:  userID,
			Subject: input.Subject,
			Message: input.Message,
			Status:  models.TicketStatusOpen,
		}
		if err := db.Create(&ticket).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
			return
		}
		c.JSON(http.StatusCreated, ticket)
	}
}

// GET /api/tickets
func GetAllTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Replies").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var tickets []models.Ticket
		if err := query.Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// GET /api/tickets/user/:user_id
func GetTicketsByUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tickets []models.Ticket
		if err := db.Preload("Replies").
			Where("user_id = ?", c.Param("user_id")).
			Order("created_at DESC").
			Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// POST /api/tickets/reply/:id
//
// Replying reopens closed tickets into in_progress.
func ReplyToTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var ticket models.Ticket
		if err := db.First(&ticket, "ticket_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}

		reply := models.TicketReply{
			TicketID: ticket.TicketID,
			UserID:   userID,
			Message:  input.Message,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&reply).Error; err != nil {
				return err
			}
			return tx.Model(&ticket).Update("status", models.TicketStatusInProgress).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reply"})
			return
		}
		c.JSON(http.StatusCreated, reply)
	}
}

// PATCH /api/tickets/status/:id
func UpdateTicketStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TicketStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		switch models.TicketStatus(input.Status) {
		case models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusClosed:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		var ticket models.Ticket
		if err := db.First(&ticket, "ticket_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}

		if err := db.Model(&ticket).Update("status", input.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
			return
		}
		ticket.Status = models.TicketStatus(input.Status)
		c.JSON(http.StatusOK, ticket)
	}
}
