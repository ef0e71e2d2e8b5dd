package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contact-importer/auth"
	"contact-importer/ccapi"
)

type contactsHandler struct {
	api *ccapi.Client
}

// listContacts godoc
// @Summary List contacts
// @Description Proxies one page of the remote contact list
// @Tags contacts
// @Produce json
// @Param cursor query string false "Pagination cursor from a previous page"
// @Param limit query string false "Page size"
// @Success 200 {object} ccapi.ContactList "Contact page"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /contacts [get]
func (h *contactsHandler) listContacts(c *gin.Context) {
	list, err := h.api.ListContacts(
		c.Request.Context(),
		auth.TokenFromContext(c),
		c.Query("cursor"),
		c.Query("limit"),
	)
	if err != nil {
		remoteError(c, err)
		return
	}

	c.Set("rows_processed", len(list.Contacts))
	c.JSON(http.StatusOK, list)
}

// getContact godoc
// @Summary Get one contact
// @Tags contacts
// @Produce json
// @Param contact_id path string true "Contact ID"
// @Success 200 {object} contacts.Contact "Contact"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /contacts/{contact_id} [get]
func (h *contactsHandler) getContact(c *gin.Context) {
	contact, err := h.api.GetContact(c.Request.Context(), auth.TokenFromContext(c), c.Param("contact_id"))
	if err != nil {
		remoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// deleteContact godoc
// @Summary Delete a contact
// @Tags contacts
// @Produce json
// @Param contact_id path string true "Contact ID"
// @Success 204 "Deleted"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /contacts/{contact_id} [delete]
func (h *contactsHandler) deleteContact(c *gin.Context) {
	if err := h.api.DeleteContact(c.Request.Context(), auth.TokenFromContext(c), c.Param("contact_id")); err != nil {
		remoteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// remoteError maps remote API failures onto this service's responses
func remoteError(c *gin.Context, err error) {
	if apiErr, ok := err.(*ccapi.APIError); ok {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
