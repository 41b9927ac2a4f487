package play

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/option"

	"github.com/code-payments/flipchat-billing/receipt"
)

const (
	testPackage = "xyz.flipchat.app"
	testOwner   = "owner"
	basePath    = "/androidpublisher/v3/applications/{pkg}"
)

// fakePlay serves the subset of the Play Developer API the client uses.
type fakePlay struct {
	sync.Mutex

	products              map[string]*androidpublisher.InAppProduct
	subscriptions         map[string]*androidpublisher.Subscription
	offers                map[string][]*androidpublisher.SubscriptionOffer
	productPurchases      map[string]*androidpublisher.ProductPurchase
	subscriptionPurchases map[string]*androidpublisher.SubscriptionPurchase

	consumed     []string
	acknowledged []string
	failStatus   int
}

func newFakePlay(t *testing.T) (*fakePlay, *httptest.Server) {
	f := &fakePlay{
		products:              make(map[string]*androidpublisher.InAppProduct),
		subscriptions:         make(map[string]*androidpublisher.Subscription),
		offers:                make(map[string][]*androidpublisher.SubscriptionOffer),
		productPurchases:      make(map[string]*androidpublisher.ProductPurchase),
		subscriptionPurchases: make(map[string]*androidpublisher.SubscriptionPurchase),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+basePath+"/inappproducts/{sku}", f.getProduct)
	mux.HandleFunc("GET "+basePath+"/subscriptions/{productId}", f.getSubscription)
	mux.HandleFunc("GET "+basePath+"/subscriptions/{productId}/basePlans/{basePlanId}/offers", f.listOffers)
	mux.HandleFunc("GET "+basePath+"/purchases/products/{productId}/tokens/{token}", f.getProductPurchase)
	mux.HandleFunc("POST "+basePath+"/purchases/products/{productId}/tokens/{token}", f.updateProductPurchase)
	mux.HandleFunc("GET "+basePath+"/purchases/subscriptions/{productId}/tokens/{token}", f.getSubscriptionPurchase)
	mux.HandleFunc("POST "+basePath+"/purchases/subscriptions/{productId}/tokens/{token}", f.updateSubscriptionPurchase)

	srv := httptest.NewServer(f.middleware(mux))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(srv *httptest.Server, receipts receipt.Store) *Client {
	return NewClient(
		zap.NewNop(),
		Config{PackageName: testPackage, Owner: testOwner},
		receipts,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
}

func (f *fakePlay) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.Lock()
		status := f.failStatus
		f.Unlock()

		if status != 0 {
			writeError(w, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakePlay) setFailStatus(status int) {
	f.Lock()
	defer f.Unlock()
	f.failStatus = status
}

func (f *fakePlay) getProduct(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	writeJSON(w, f.products[r.PathValue("sku")])
}

func (f *fakePlay) getSubscription(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	writeJSON(w, f.subscriptions[r.PathValue("productId")])
}

func (f *fakePlay) listOffers(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	writeJSON(w, &androidpublisher.ListSubscriptionOffersResponse{
		SubscriptionOffers: f.offers[r.PathValue("productId")+"/"+r.PathValue("basePlanId")],
	})
}

func (f *fakePlay) getProductPurchase(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	writeJSON(w, f.productPurchases[r.PathValue("token")])
}

func (f *fakePlay) getSubscriptionPurchase(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	writeJSON(w, f.subscriptionPurchases[r.PathValue("token")])
}

func (f *fakePlay) updateProductPurchase(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()

	token, action, _ := strings.Cut(r.PathValue("token"), ":")
	purchase, ok := f.productPurchases[token]
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}

	switch action {
	case "consume":
		purchase.ConsumptionState = consumed
		f.consumed = append(f.consumed, token)
	case "acknowledge":
		purchase.AcknowledgementState = acknowledged
		f.acknowledged = append(f.acknowledged, token)
	default:
		writeError(w, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakePlay) updateSubscriptionPurchase(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()

	token, action, _ := strings.Cut(r.PathValue("token"), ":")
	purchase, ok := f.subscriptionPurchases[token]
	if !ok || action != "acknowledge" {
		writeError(w, http.StatusNotFound)
		return
	}

	purchase.AcknowledgementState = acknowledged
	f.acknowledged = append(f.acknowledged, token)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakePlay) consumedTokens() []string {
	f.Lock()
	defer f.Unlock()
	return append([]string(nil), f.consumed...)
}

func (f *fakePlay) acknowledgedTokens() []string {
	f.Lock()
	defer f.Unlock()
	return append([]string(nil), f.acknowledged...)
}

func writeJSON(w http.ResponseWriter, v any) {
	if v == nil || isNilPointer(v) {
		writeError(w, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func isNilPointer(v any) bool {
	switch typed := v.(type) {
	case *androidpublisher.InAppProduct:
		return typed == nil
	case *androidpublisher.Subscription:
		return typed == nil
	case *androidpublisher.ProductPurchase:
		return typed == nil
	case *androidpublisher.SubscriptionPurchase:
		return typed == nil
	}
	return false
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": http.StatusText(status),
		},
	})
}
