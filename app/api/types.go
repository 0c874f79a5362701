package api

import (
	"feedrelay/app/config"
	"feedrelay/app/database"
	"feedrelay/app/delivery"
)

type Handler struct {
	configs      map[string]*config.FeedConfig
	feedRepo     database.FeedRepository
	fieldRepo    database.ArticleFieldRepository
	deliveryRepo database.DeliveryRepository
	ledger       *delivery.Ledger
	version      string
}
