package paymentprovider

import "time"

// PreferenceItem позиция платёжного предпочтения: цена за единицу и количество.
type PreferenceItem struct {
	Title     string `json:"title,omitempty"`
	UnitPrice string `json:"unit_price"` // сумма строкой, например "80000.00"
	Quantity  int    `json:"quantity"`
	Currency  string `json:"currency_id"` // валюта, например "ARS"
}

// CreatePreferenceRequest представляет запрос на создание платёжного предпочтения.
type CreatePreferenceRequest struct {
	Items             []PreferenceItem  `json:"items"`
	ExternalReference string            `json:"external_reference"` // ссылка на заказ в нашей системе
	Metadata          map[string]string `json:"metadata,omitempty"`  // дополнительная инфа: plan_id, trainer_id
	NotificationURL   string            `json:"notification_url,omitempty"`
}

// CreatePreferenceResponse представляет ответ провайдера на создание предпочтения.
type CreatePreferenceResponse struct {
	ID        string    `json:"id"`         // ID предпочтения у провайдера
	InitPoint string    `json:"init_point"` // URL для перенаправления на оплату
	CreatedAt time.Time `json:"date_created"`
}
