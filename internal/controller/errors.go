package controller

import (
	"errors"
	"net/http"

	"marketplace-bidding-service/internal/repository"
	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError traduce los errores de negocio al código HTTP que corresponde.
// Todo lo que no reconocemos colapsa a 500 con el mensaje del error.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidBid),
		errors.Is(err, service.ErrNotAuction),
		errors.Is(err, service.ErrAuctionEnded),
		errors.Is(err, service.ErrAuctionNotExpired),
		errors.Is(err, service.ErrBidTooLow),
		errors.Is(err, service.ErrBidTooHigh),
		errors.Is(err, service.ErrOwnProduct),
		errors.Is(err, service.ErrWrongBidderKind),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrBidFinalState),
		errors.Is(err, service.ErrNoBuyNowPrice),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrFinalState):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
