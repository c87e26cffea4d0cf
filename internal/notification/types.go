package notification

// UpsertPreferenceRequest — тело запроса на сохранение настройки уведомлений.
type UpsertPreferenceRequest struct {
	UserUID     string  `json:"user_uid"`
	Type        string  `json:"type"`
	Enabled     bool    `json:"enabled"`
	ContactInfo *string `json:"contact_info"`
}
