package ticketControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
	"github.com/SajanaWickramarathna/CSdrop-sub000/testutil"
)

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTicket(t *testing.T, r http.Handler, token string) models.Ticket {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/tickets/create", token,
		map[string]string{"subject": "Missing item", "message": "Order arrived without the lamp"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	return ticket
}

func TestCreateTicket(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleCustomer)
	token := testutil.Token(t, user)

	ticket := createTicket(t, r, token)
	assert.Equal(t, user.UserID, ticket.UserID)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
}

func TestReplyMovesTicketToInProgress(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleCustomer)
	supporter := testutil.CreateUser(t, db, "support@example.com", models.RoleSupporter)
	ticket := createTicket(t, r, testutil.Token(t, user))

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tickets/reply/%d", ticket.TicketID),
		testutil.Token(t, supporter), map[string]string{"message": "We are checking with the courier"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.Ticket
	require.NoError(t, db.Preload("Replies").First(&stored, "ticket_id = ?", ticket.TicketID).Error)
	assert.Equal(t, models.TicketStatusInProgress, stored.Status)
	require.Len(t, stored.Replies, 1)
	assert.Equal(t, supporter.UserID, stored.Replies[0].UserID)
}

func TestUpdateTicketStatus(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleCustomer)
	supporter := testutil.CreateUser(t, db, "support@example.com", models.RoleSupporter)
	ticket := createTicket(t, r, testutil.Token(t, user))

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tickets/status/%d", ticket.TicketID),
		testutil.Token(t, supporter), map[string]string{"status": "closed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Ticket
	require.NoError(t, db.First(&stored, "ticket_id = ?", ticket.TicketID).Error)
	assert.Equal(t, models.TicketStatusClosed, stored.Status)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tickets/status/%d", ticket.TicketID),
		testutil.Token(t, supporter), map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketListRequiresStaff(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleCustomer)
	token := testutil.Token(t, user)
	createTicket(t, r, token)

	w := doJSON(t, r, http.MethodGet, "/api/tickets", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	supporter := testutil.CreateUser(t, db, "support@example.com", models.RoleSupporter)
	w = doJSON(t, r, http.MethodGet, "/api/tickets", testutil.Token(t, supporter), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	assert.Len(t, tickets, 1)
}

func TestTicketsByUser(t *testing.T) {
	r, db := testutil.SetupRouter(t)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleCustomer)
	other := testutil.CreateUser(t, db, "other@example.com", models.RoleCustomer)
	createTicket(t, r, testutil.Token(t, user))
	createTicket(t, r, testutil.Token(t, other))

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tickets/user/%d", user.UserID),
		testutil.Token(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, user.UserID, tickets[0].UserID)
}
