package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"club-manager/backend/internal/config"
	"club-manager/backend/internal/domain/attendance"
	"club-manager/backend/internal/domain/awards"
	"club-manager/backend/internal/domain/budopass"
	"club-manager/backend/internal/domain/payments"
	"club-manager/backend/internal/domain/subscriptions"
	"club-manager/backend/internal/domain/user"
	"club-manager/backend/internal/handlers"
	"club-manager/backend/internal/middleware"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Cfg              config.Config
	AuthClient       *auth.Client
	UserSvc          *user.Service
	AwardsSvc        *awards.Service
	PaymentsSvc      *payments.Service
	SubscriptionsSvc *subscriptions.Service
	AttendanceSvc    *attendance.Service
	BudoPassSvc      *budopass.Service
	Uploads          *handlers.Uploads
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		// ===== Own profile =====
		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.UserSvc.GetProfile(r.Context(), au.UID, au.Email)
			if err != nil {
				status, msg := mapUserError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in user.UpdateProfileInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.UserSvc.UpdateProfile(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapUserError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/me/overview", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.UserSvc.GetOverview(r.Context(), au.UID)
			if err != nil {
				status, msg := mapUserError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Own awards and payments =====
		pr.Get("/v1/me/awards", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			list, err := d.AwardsSvc.List(r.Context(), au.UID)
			if err != nil {
				status, msg := mapAwardsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{
				"awards":    list,
				"spendable": awards.SpendableTotal(list),
			})
		})

		pr.Get("/v1/me/payments", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			limit := parseLimit(r.URL.Query().Get("limit"))
			out, err := d.PaymentsSvc.List(r.Context(), au.UID, limit)
			if err != nil {
				status, msg := mapPaymentsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/me/payments/{paymentId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.PaymentsSvc.Get(r.Context(), au.UID, chi.URLParam(r, "paymentId"))
			if err != nil {
				status, msg := mapPaymentsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/me/bonus", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			total, err := d.AwardsSvc.Spendable(r.Context(), au.UID)
			if err != nil {
				status, msg := mapAwardsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"spendable": total})
		})

		// ===== Purchases =====
		pr.Post("/v1/me/association", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in payments.CreatePurchaseInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.PaymentsSvc.PurchaseAssociation(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapPaymentsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/me/trial", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in payments.CreatePurchaseInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.PaymentsSvc.PurchaseTrial(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapPaymentsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		// ===== Subscriptions =====
		pr.Get("/v1/subscriptions", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.SubscriptionsSvc.List(r.Context())
			if err != nil {
				status, msg := mapSubscriptionsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/subscriptions/current", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			typ := strings.TrimSpace(r.URL.Query().Get("type"))
			out, err := d.SubscriptionsSvc.Current(r.Context(), au.UID, typ)
			if err != nil {
				status, msg := mapSubscriptionsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/me/subscription", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in subscriptions.PurchaseInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.SubscriptionsSvc.Purchase(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapSubscriptionsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		// ===== Attendance (self-service daily prompt) =====
		pr.Post("/v1/me/attendance", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				Status string `json:"status"`
				Notes  string `json:"notes,omitempty"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.AttendanceSvc.RecordSelf(r.Context(), au.UID, in.Status, in.Notes)
			if err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/me/attendance", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			in := attendance.ListInput{
				From:  r.URL.Query().Get("from"),
				To:    r.URL.Query().Get("to"),
				Limit: parseLimit(r.URL.Query().Get("limit")),
			}
			out, err := d.AttendanceSvc.List(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapAttendanceError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Budo Pass =====
		pr.Get("/v1/me/exams", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.BudoPassSvc.ListExams(r.Context(), au.UID)
			if err != nil {
				status, msg := mapBudoPassError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/me/budopass", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			pdf, err := d.BudoPassSvc.GeneratePDF(r.Context(), au.UID)
			if err != nil {
				status, msg := mapBudoPassError(err)
				Fail(w, status, msg)
				return
			}
			WritePDF(w, "budopass.pdf", pdf)
		})

		// ===== Uploads =====
		pr.Post("/v1/uploads/signed-url", d.Uploads.CreateSignedURL)

		// ===== Admin routes =====
		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)

			ar.Get("/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
				q := strings.TrimSpace(r.URL.Query().Get("q"))
				limit := parseLimit(r.URL.Query().Get("limit"))
				out, err := d.UserSvc.Search(r.Context(), q, limit)
				if err != nil {
					status, msg := mapUserError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Get("/v1/admin/users/{uid}/overview", func(w http.ResponseWriter, r *http.Request) {
				uid := chi.URLParam(r, "uid")
				out, err := d.UserSvc.GetOverview(r.Context(), uid)
				if err != nil {
					status, msg := mapUserError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Patch("/v1/admin/users/{uid}/status", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				uid := chi.URLParam(r, "uid")

				var in user.UpdateStatusInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.UserSvc.UpdateStatus(r.Context(), au.UID, uid, in)
				if err != nil {
					status, msg := mapUserError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			// ----- Award catalog & grants -----
			ar.Get("/v1/admin/awards", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.AwardsSvc.ListCatalog(r.Context())
				if err != nil {
					status, msg := mapAwardsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Post("/v1/admin/awards", func(w http.ResponseWriter, r *http.Request) {
				var in awards.CreateAwardInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}
				out, err := d.AwardsSvc.CreateCatalog(r.Context(), in)
				if err != nil {
					status, msg := mapAwardsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Post("/v1/admin/users/{uid}/awards", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				uid := chi.URLParam(r, "uid")

				var in awards.GrantInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.AwardsSvc.Grant(r.Context(), au.UID, uid, in)
				if err != nil {
					status, msg := mapAwardsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Delete("/v1/admin/users/{uid}/awards/{awardId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				uid := chi.URLParam(r, "uid")
				awardID := chi.URLParam(r, "awardId")

				if err := d.AwardsSvc.Revoke(r.Context(), au.UID, uid, awardID); err != nil {
					status, msg := mapAwardsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, map[string]any{"deleted": true})
			})

			// ----- Payment approval workflow -----
			ar.Post("/v1/admin/users/{uid}/payments/{paymentId}/approve", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.PaymentsSvc.Approve(r.Context(), au.UID, chi.URLParam(r, "uid"), chi.URLParam(r, "paymentId"))
				if err != nil {
					status, msg := mapPaymentsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Post("/v1/admin/users/{uid}/payments/{paymentId}/reject", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.PaymentsSvc.Reject(r.Context(), au.UID, chi.URLParam(r, "uid"), chi.URLParam(r, "paymentId"))
				if err != nil {
					status, msg := mapPaymentsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Post("/v1/admin/users/{uid}/payments/{paymentId}/cancel", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.PaymentsSvc.Cancel(r.Context(), au.UID, chi.URLParam(r, "uid"), chi.URLParam(r, "paymentId"))
				if err != nil {
					status, msg := mapPaymentsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			// ----- Subscription catalog -----
			ar.Post("/v1/admin/subscriptions", func(w http.ResponseWriter, r *http.Request) {
				var in subscriptions.CreateOfferingInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}
				out, err := d.SubscriptionsSvc.CreateOffering(r.Context(), in)
				if err != nil {
					status, msg := mapSubscriptionsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Put("/v1/admin/subscriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
				var in subscriptions.CreateOfferingInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}
				out, err := d.SubscriptionsSvc.UpdateOffering(r.Context(), chi.URLParam(r, "id"), in)
				if err != nil {
					status, msg := mapSubscriptionsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Delete("/v1/admin/subscriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
				if err := d.SubscriptionsSvc.DeleteOffering(r.Context(), chi.URLParam(r, "id")); err != nil {
					status, msg := mapSubscriptionsError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, map[string]any{"deleted": true})
			})

			// ----- Attendance -----
			ar.Post("/v1/admin/attendance", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in attendance.RecordInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.AttendanceSvc.Record(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapAttendanceError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Post("/v1/admin/attendance/bulk", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in attendance.BulkInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.AttendanceSvc.BulkRecord(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapAttendanceError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, map[string]any{"results": out})
			})

			ar.Get("/v1/admin/users/{uid}/attendance/summary", func(w http.ResponseWriter, r *http.Request) {
				uid := chi.URLParam(r, "uid")
				year, _ := strconv.Atoi(r.URL.Query().Get("year"))
				out, err := d.AttendanceSvc.YearSummary(r.Context(), uid, year)
				if err != nil {
					status, msg := mapAttendanceError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			// ----- Exams & Budo Pass -----
			ar.Post("/v1/admin/users/{uid}/exams", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				uid := chi.URLParam(r, "uid")

				var in budopass.AddExamInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					Fail(w, 400, "invalid json")
					return
				}

				out, err := d.BudoPassSvc.AddExam(r.Context(), au.UID, uid, in)
				if err != nil {
					status, msg := mapBudoPassError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Get("/v1/admin/users/{uid}/exams", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.BudoPassSvc.ListExams(r.Context(), chi.URLParam(r, "uid"))
				if err != nil {
					status, msg := mapBudoPassError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, out)
			})

			ar.Get("/v1/admin/users/{uid}/budopass", func(w http.ResponseWriter, r *http.Request) {
				uid := chi.URLParam(r, "uid")
				pdf, err := d.BudoPassSvc.GeneratePDF(r.Context(), uid)
				if err != nil {
					status, msg := mapBudoPassError(err)
					Fail(w, status, msg)
					return
				}
				WritePDF(w, "budopass-"+uid+".pdf", pdf)
			})
		})

		// ===== SuperAdmin routes =====
		pr.Group(func(sr chi.Router) {
			sr.Use(middleware.RequireSuperAdmin)

			sr.Delete("/v1/admin/users/{uid}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				if err := d.UserSvc.Delete(r.Context(), au.UID, chi.URLParam(r, "uid")); err != nil {
					status, msg := mapUserError(err)
					Fail(w, status, msg)
					return
				}
				WriteJSON(w, 200, map[string]any{"deleted": true})
			})
		})
	})

	return r
}

func parseLimit(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func mapUserError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case user.IsErrUnauthorized(err):
		return 403, err.Error()
	case user.IsErrNotFound(err):
		return 404, err.Error()
	case user.IsErrBadRequest(err):
		return 400, err.Error()
	case user.IsErrCannotDeleteSelf(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapAwardsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case awards.IsErrUnauthorized(err):
		return 403, err.Error()
	case awards.IsErrNotFound(err):
		return 404, err.Error()
	case awards.IsErrBadRequest(err):
		return 400, err.Error()
	case awards.IsErrSpent(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapPaymentsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case payments.IsErrUnauthorized(err):
		return 403, err.Error()
	case payments.IsErrNotFound(err):
		return 404, err.Error()
	case payments.IsErrBadRequest(err):
		return 400, err.Error()
	case payments.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapSubscriptionsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case subscriptions.IsErrUnauthorized(err):
		return 403, err.Error()
	case subscriptions.IsErrNotFound(err):
		return 404, err.Error()
	case subscriptions.IsErrBadRequest(err):
		return 400, err.Error()
	case subscriptions.IsErrNonePurchasable(err):
		return 404, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapAttendanceError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case attendance.IsErrUnauthorized(err):
		return 403, err.Error()
	case attendance.IsErrNotFound(err):
		return 404, err.Error()
	case attendance.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapBudoPassError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case budopass.IsErrNotFound(err):
		return 404, err.Error()
	case budopass.IsErrBadRequest(err):
		return 400, err.Error()
	case budopass.IsErrRender(err):
		return 500, err.Error()
	default:
		return 500, err.Error()
	}
}
