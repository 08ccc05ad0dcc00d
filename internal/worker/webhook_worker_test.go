package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports/mocks"
	"payment-gateway/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type webhookWorkerDeps struct {
	worker       *WebhookWorker
	webhookRepo  *mocks.MockWebhookRepository
	merchantRepo *mocks.MockMerchantRepository
	ctrl         *gomock.Controller
}

func setupWebhookWorker(t *testing.T) *webhookWorkerDeps {
	ctrl := gomock.NewController(t)
	d := &webhookWorkerDeps{
		webhookRepo:  mocks.NewMockWebhookRepository(ctrl),
		merchantRepo: mocks.NewMockMerchantRepository(ctrl),
		ctrl:         ctrl,
	}
	d.worker = NewWebhookWorker(
		d.webhookRepo, d.merchantRepo,
		service.NewHMACSignatureService(),
		http.DefaultClient,
		NewBackoffSchedule(true),
		5*time.Second,
		zerolog.Nop(),
	)
	return d
}

func webhookJobPayload(t *testing.T, job domain.WebhookJob) []byte {
	payload, err := json.Marshal(job)
	require.NoError(t, err)
	return payload
}

func TestWebhookWorker_FirstDeliverySucceeds(t *testing.T) {
	eventBody := []byte(`{"event":"payment.success","timestamp":1700000000,"data":{}}`)

	var gotSignature atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, eventBody, body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotSignature.Store(r.Header.Get("X-Webhook-Signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.Equal(t, domain.WebhookStatusSuccess, wlog.Status)
			assert.Equal(t, 1, wlog.Attempts)
			assert.Nil(t, wlog.NextRetryAt)
			require.NotNil(t, wlog.ResponseCode)
			assert.Equal(t, http.StatusOK, *wlog.ResponseCode)
			assert.NotNil(t, wlog.LastAttemptAt)
			return nil
		})

	job := domain.WebhookJob{
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentSuccess,
		Payload:    eventBody,
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)

	sig, _ := gotSignature.Load().(string)
	sigSvc := service.NewHMACSignatureService()
	assert.True(t, sigSvc.Verify(merchant.WebhookSecret, eventBody, sig),
		"signature header must verify against the merchant secret")
}

func TestWebhookWorker_ServerErrorSchedulesRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "try later", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL

	before := time.Now().UTC()
	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.Equal(t, domain.WebhookStatusPending, wlog.Status)
			assert.Equal(t, 1, wlog.Attempts)
			require.NotNil(t, wlog.NextRetryAt)
			// First failure on the test schedule waits 5s.
			assert.WithinDuration(t, before.Add(5*time.Second), *wlog.NextRetryAt, 2*time.Second)
			require.NotNil(t, wlog.ResponseCode)
			assert.Equal(t, http.StatusInternalServerError, *wlog.ResponseCode)
			require.NotNil(t, wlog.ResponseBody)
			assert.Contains(t, *wlog.ResponseBody, "try later")
			return nil
		})

	job := domain.WebhookJob{
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentFailed,
		Payload:    []byte(`{}`),
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

func TestWebhookWorker_FinalAttemptFailsPermanently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL

	logID := uuid.New()
	existing := &domain.WebhookDeliveryLog{
		ID:         logID,
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentSuccess,
		Payload:    []byte(`{}`),
		Status:     domain.WebhookStatusPending,
		Attempts:   MaxDeliveryAttempts - 1,
	}

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().GetByID(ctx, logID).Return(existing, nil)
	d.webhookRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.Equal(t, domain.WebhookStatusFailed, wlog.Status)
			assert.Equal(t, MaxDeliveryAttempts, wlog.Attempts)
			assert.Nil(t, wlog.NextRetryAt, "a dead delivery must not stay on the retry scan")
			return nil
		})

	job := domain.WebhookJob{
		MerchantID:   merchant.ID,
		Event:        domain.EventPaymentSuccess,
		Payload:      []byte(`{}`),
		WebhookLogID: &logID,
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

func TestWebhookWorker_TransportFailureRecordedAsCodeZero(t *testing.T) {
	// A closed server produces a connection error, not an HTTP status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = url

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.Equal(t, domain.WebhookStatusPending, wlog.Status)
			require.NotNil(t, wlog.ResponseCode)
			assert.Equal(t, 0, *wlog.ResponseCode)
			require.NotNil(t, wlog.ResponseBody)
			assert.NotEmpty(t, *wlog.ResponseBody)
			return nil
		})

	job := domain.WebhookJob{
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentSuccess,
		Payload:    []byte(`{}`),
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

func TestWebhookWorker_RetryReusesExistingLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL

	logID := uuid.New()
	next := time.Now().UTC()
	existing := &domain.WebhookDeliveryLog{
		ID:          logID,
		MerchantID:  merchant.ID,
		Event:       domain.EventRefundProcessed,
		Payload:     []byte(`{}`),
		Status:      domain.WebhookStatusPending,
		Attempts:    2,
		NextRetryAt: &next,
	}

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().GetByID(ctx, logID).Return(existing, nil)
	// The retry path updates in place; Create must not be called.
	d.webhookRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.Equal(t, logID, wlog.ID)
			assert.Equal(t, domain.WebhookStatusSuccess, wlog.Status)
			assert.Equal(t, 3, wlog.Attempts)
			assert.Nil(t, wlog.NextRetryAt)
			return nil
		})

	job := domain.WebhookJob{
		MerchantID:   merchant.ID,
		Event:        domain.EventRefundProcessed,
		Payload:      []byte(`{}`),
		WebhookLogID: &logID,
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

// A job can outlive its log row. Delivery still happens, recorded on a
// fresh log instead of being dropped.
func TestWebhookWorker_MissingLogGetsFreshRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL
	logID := uuid.New()

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().GetByID(ctx, logID).Return(nil, nil)
	d.webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			assert.NotEqual(t, logID, wlog.ID, "the stale reference must not be reused")
			assert.Equal(t, merchant.ID, wlog.MerchantID)
			assert.Equal(t, domain.WebhookStatusSuccess, wlog.Status)
			assert.Equal(t, 1, wlog.Attempts)
			return nil
		})

	job := domain.WebhookJob{
		MerchantID:   merchant.ID,
		Event:        domain.EventPaymentSuccess,
		Payload:      []byte(`{}`),
		WebhookLogID: &logID,
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

func TestWebhookWorker_MerchantWithoutEndpointDropped(t *testing.T) {
	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := &domain.Merchant{ID: uuid.New()}

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)

	job := domain.WebhookJob{
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentSuccess,
		Payload:    []byte(`{}`),
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}

func TestWebhookWorker_ResponseBodyCapped(t *testing.T) {
	big := make([]byte, maxResponseBodyBytes*2)
	for i := range big {
		big[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	d := setupWebhookWorker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchant := webhookMerchant()
	*merchant.WebhookURL = srv.URL

	d.merchantRepo.EXPECT().GetByID(ctx, merchant.ID).Return(merchant, nil)
	d.webhookRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, wlog *domain.WebhookDeliveryLog) error {
			require.NotNil(t, wlog.ResponseBody)
			assert.Len(t, *wlog.ResponseBody, maxResponseBodyBytes)
			return nil
		})

	job := domain.WebhookJob{
		MerchantID: merchant.ID,
		Event:      domain.EventPaymentSuccess,
		Payload:    []byte(`{}`),
	}
	err := d.worker.Process(ctx, webhookJobPayload(t, job))
	assert.NoError(t, err)
}
