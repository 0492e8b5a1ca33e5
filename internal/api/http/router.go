package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route. Route names key the security table in
// config.EndpointSecurityConfig. storage may be nil when the document backend
// serves its own URLs.
func NewRouter(h *Handler, auth *AuthMiddleware, storage *StorageHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recoverer, RequestLogger, auth.Handler)

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet).Name("Healthz")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/me", h.GetMe).Methods(http.MethodGet).Name("GetMe")

	// Organizations
	api.HandleFunc("/businesses", h.RegisterBusiness).Methods(http.MethodPost).Name("RegisterBusiness")
	api.HandleFunc("/businesses", h.ListBusinesses).Methods(http.MethodGet).Name("ListBusinesses")
	api.HandleFunc("/businesses/{id:[0-9]+}", h.GetBusiness).Methods(http.MethodGet).Name("GetBusiness")
	api.HandleFunc("/businesses/{id:[0-9]+}/review", h.ReviewBusiness).Methods(http.MethodPost).Name("ReviewBusiness")
	api.HandleFunc("/beneficiaries", h.RegisterBeneficiary).Methods(http.MethodPost).Name("RegisterBeneficiary")
	api.HandleFunc("/beneficiaries", h.ListBeneficiaries).Methods(http.MethodGet).Name("ListBeneficiaries")
	api.HandleFunc("/beneficiaries/{id:[0-9]+}", h.GetBeneficiary).Methods(http.MethodGet).Name("GetBeneficiary")
	api.HandleFunc("/beneficiaries/{id:[0-9]+}/review", h.ReviewBeneficiary).Methods(http.MethodPost).Name("ReviewBeneficiary")

	// Donations
	api.HandleFunc("/donations", h.SubmitDonation).Methods(http.MethodPost).Name("SubmitDonation")
	api.HandleFunc("/donations", h.ListDonations).Methods(http.MethodGet).Name("ListDonations")
	api.HandleFunc("/donations/{id:[0-9]+}", h.GetDonation).Methods(http.MethodGet).Name("GetDonation")
	api.HandleFunc("/donations/{id:[0-9]+}/transitions", h.TransitionDonation).Methods(http.MethodPost).Name("TransitionDonation")
	api.HandleFunc("/donations/{id:[0-9]+}/pickup", h.SchedulePickup).Methods(http.MethodPost).Name("SchedulePickup")
	api.HandleFunc("/donations/{id:[0-9]+}/complete", h.CompleteDonation).Methods(http.MethodPost).Name("CompleteDonation")
	api.HandleFunc("/donations/{id:[0-9]+}/matches", h.ProposeMatches).Methods(http.MethodPost).Name("ProposeMatches")
	api.HandleFunc("/donations/{id:[0-9]+}/matches", h.ListMatches).Methods(http.MethodGet).Name("ListMatches")
	api.HandleFunc("/donations/{id:[0-9]+}/quotes", h.ListQuotes).Methods(http.MethodGet).Name("ListQuotes")

	// Matches
	api.HandleFunc("/matches", h.ListMyMatches).Methods(http.MethodGet).Name("ListMyMatches")
	api.HandleFunc("/matches/{id:[0-9]+}/respond", h.RespondToMatch).Methods(http.MethodPost).Name("RespondToMatch")
	api.HandleFunc("/matches/{id:[0-9]+}/receipt", h.ConfirmReceipt).Methods(http.MethodPost).Name("ConfirmReceipt")

	// Quotes
	api.HandleFunc("/quotes/preview", h.PreviewQuote).Methods(http.MethodPost).Name("PreviewQuote")
	api.HandleFunc("/quotes", h.SendQuote).Methods(http.MethodPost).Name("SendQuote")
	api.HandleFunc("/quotes/{id:[0-9]+}/accept", h.AcceptQuote).Methods(http.MethodPost).Name("AcceptQuote")
	api.HandleFunc("/quotes/{id:[0-9]+}/reject", h.RejectQuote).Methods(http.MethodPost).Name("RejectQuote")
	api.HandleFunc("/quotes/{id:[0-9]+}/pickup", h.ConfirmPickup).Methods(http.MethodPost).Name("ConfirmPickup")

	// Gate
	api.HandleFunc("/gate/pending-acks", h.PendingMatchAcks).Methods(http.MethodGet).Name("PendingMatchAcks")
	api.HandleFunc("/gate/ack", h.ConfirmAck).Methods(http.MethodPost).Name("ConfirmAck")
	api.HandleFunc("/gate/upcoming-pickups", h.UpcomingPickups).Methods(http.MethodGet).Name("UpcomingPickups")
	api.HandleFunc("/gate/reminder/dismiss", h.DismissReminder).Methods(http.MethodPost).Name("DismissReminder")

	// Documents
	api.HandleFunc("/documents/upload-url", h.RequestUpload).Methods(http.MethodPost).Name("RequestUpload")
	api.HandleFunc("/documents", h.AttachDocument).Methods(http.MethodPost).Name("AttachDocument")
	api.HandleFunc("/documents/{kind}/{owner_id:[0-9]+}", h.GetDocument).Methods(http.MethodGet).Name("GetDocument")

	// Notifications
	api.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet).Name("GetNotifications")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost).Name("MarkNotificationRead")

	if storage != nil {
		api.HandleFunc("/upload/{token}", storage.HandleUpload).Methods(http.MethodPut).Name("StorageUpload")
		api.HandleFunc("/download/{digest}", storage.HandleDownload).Methods(http.MethodGet).Name("StorageFetch")
	}
	return r
}
