package worker

import (
	"context"
	"time"

	"marketplace-bidding-service/internal/middleware"
	"marketplace-bidding-service/internal/service"

	"github.com/sirupsen/logrus"
)

// Sweeper cierra periódicamente las subastas vencidas. Es el mismo camino que
// POST /auction/check-expired; el barrido es idempotente por producto, así que
// no importa si los dos corren a la vez.
type Sweeper struct {
	auctions *service.AuctionService
	interval time.Duration
}

func NewSweeper(auctions *service.AuctionService, interval time.Duration) *Sweeper {
	return &Sweeper{auctions: auctions, interval: interval}
}

// Start bloquea hasta que se cancele el contexto.
func (w *Sweeper) Start(ctx context.Context) {
	logrus.Infof("barrido de subastas cada %s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("barrido de subastas detenido")
			return
		case now := <-ticker.C:
			closed, err := w.auctions.CloseExpiredAuctions(ctx, now.UTC())
			if err != nil {
				logrus.Error("error en el barrido de subastas: ", err)
				continue
			}
			if closed > 0 {
				middleware.RecordAuctionsClosed(closed)
				logrus.WithField("closed", closed).Info("subastas cerradas por el barrido")
			}
		}
	}
}
