package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"club-manager/backend/internal/config"
	"club-manager/backend/internal/firebase"
	"club-manager/backend/internal/httpjson"
	"club-manager/backend/internal/middleware"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
)

// Uploads issues V4 signed URLs for medical certificates and membership
// photos. Objects live under users/{uid}/ and a member may only sign paths
// inside their own prefix; admins may sign any user path.
type Uploads struct {
	cfg     config.Config
	clients *firebase.Clients
	iam     *credentials.IamCredentialsClient
}

func NewUploads(cfg config.Config, clients *firebase.Clients) *Uploads {
	// IAM client is optional; only needed for signed URLs.
	iamClient, _ := credentials.NewIamCredentialsClient(context.Background())
	return &Uploads{cfg: cfg, clients: clients, iam: iamClient}
}

type signedURLReq struct {
	ObjectPath     string `json:"objectPath"`               // e.g. "users/{uid}/medical/cert.pdf"
	Method         string `json:"method,omitempty"`         // PUT (default) or GET
	ContentType    string `json:"contentType,omitempty"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"` // default 900
}

type signedURLResp struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (h *Uploads) CreateSignedURL(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.GetAuthUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req signedURLReq
	if err := httpjson.Read(r, &req); err != nil || req.ObjectPath == "" {
		httpjson.Error(w, http.StatusBadRequest, "objectPath is required")
		return
	}

	if !allowedPath(au, req.ObjectPath) {
		httpjson.Error(w, http.StatusForbidden, "objectPath outside your namespace")
		return
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = "PUT"
	}
	if method != "PUT" && method != "GET" {
		httpjson.Error(w, http.StatusBadRequest, "method must be PUT or GET")
		return
	}

	url, exp, err := h.signedURL(r.Context(), req.ObjectPath, method, req.ContentType, req.ExpiresSeconds)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, signedURLResp{URL: url, Method: method, ExpiresAt: exp.Unix()})
}

// allowedPath confines members to their own users/{uid}/ prefix.
func allowedPath(au *middleware.AuthUser, objectPath string) bool {
	if strings.Contains(objectPath, "..") {
		return false
	}
	if au.IsAdmin() {
		return strings.HasPrefix(objectPath, "users/")
	}
	return strings.HasPrefix(objectPath, "users/"+au.UID+"/")
}

func (h *Uploads) signedURL(ctx context.Context, objectPath, method, contentType string, expiresSeconds int64) (string, time.Time, error) {
	if h.cfg.StorageBucket == "" {
		return "", time.Time{}, fmt.Errorf("FIREBASE_STORAGE_BUCKET is not set")
	}
	if h.cfg.SignedURLServiceAccountEmail == "" {
		return "", time.Time{}, fmt.Errorf("SIGNED_URL_SERVICE_ACCOUNT_EMAIL is not set")
	}
	if h.iam == nil {
		return "", time.Time{}, fmt.Errorf("IAM credentials client not available")
	}
	if expiresSeconds <= 0 || expiresSeconds > 3600 {
		expiresSeconds = 900
	}
	exp := time.Now().Add(time.Duration(expiresSeconds) * time.Second)

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         method,
		Expires:        exp,
		GoogleAccessID: h.cfg.SignedURLServiceAccountEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			name := fmt.Sprintf("projects/-/serviceAccounts/%s", h.cfg.SignedURLServiceAccountEmail)
			resp, err := h.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    name,
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}
	if method == "PUT" && contentType != "" {
		opts.ContentType = contentType
	}

	url, err := storage.SignedURL(h.cfg.StorageBucket, objectPath, opts)
	if err != nil {
		return "", time.Time{}, err
	}
	return url, exp, nil
}
