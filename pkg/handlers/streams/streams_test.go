package streams_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/handlers/streams"
	metering_mocks "github.com/vilokanam/tickmeter/pkg/metering/mocks"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
	storage_mocks "github.com/vilokanam/tickmeter/pkg/storage/mocks"
)

func TestRegisterStream(t *testing.T) {
	newStream := api.NewStream{
		CreatorAccount: "creator-1",
		PricePerTick:   5,
	}

	t.Run("Success", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		created := &models.Stream{
			Id:             uuid.New().String(),
			CreatorAccount: "creator-1",
			PricePerTick:   5,
			Live:           false,
			CreatedAt:      time.Now(),
		}
		mockEngine.On("RegisterStream", mock.Anything, "creator-1", int64(5)).Return(created, nil)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		body, _ := json.Marshal(newStream)
		req := httptest.NewRequest(http.MethodPost, "/streams", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.RegisterStream(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Stream
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, created.Id, returned.Id)
		assert.False(t, returned.Live)

		mockEngine.AssertExpectations(t)
	})

	t.Run("Non-Positive Price", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		bad := api.NewStream{CreatorAccount: "creator-1", PricePerTick: 0}
		body, _ := json.Marshal(bad)
		req := httptest.NewRequest(http.MethodPost, "/streams", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.RegisterStream(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockEngine.AssertExpectations(t)
	})

	t.Run("Bad Request - Invalid JSON", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodPost, "/streams", strings.NewReader("not-json"))
		rr := httptest.NewRecorder()

		h.RegisterStream(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetStreamById(t *testing.T) {
	streamId := uuid.New()

	t.Run("Success With Stats", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		stream := &models.Stream{
			Id:             streamId.String(),
			CreatorAccount: "creator-1",
			PricePerTick:   5,
			Live:           true,
			CreatedAt:      time.Now(),
		}
		mockStorage.On("GetStream", mock.Anything, streamId.String()).Return(stream, nil)
		mockEngine.On("TickCount", streamId.String()).Return(uint64(42))
		mockEngine.On("Viewers", streamId.String()).Return(3)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/streams/"+streamId.String(), nil)
		rr := httptest.NewRecorder()

		h.GetStreamById(rr, req, streamId)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.Stream
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, streamId.String(), returned.Id)
		assert.Equal(t, uint64(42), *returned.TickCount)
		assert.Equal(t, 3, *returned.Viewers)

		mockStorage.AssertExpectations(t)
		mockEngine.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		mockStorage.On("GetStream", mock.Anything, streamId.String()).
			Return(nil, storage.ErrStreamNotFound)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/streams/"+streamId.String(), nil)
		rr := httptest.NewRecorder()

		h.GetStreamById(rr, req, streamId)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestListStreams(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		mockStorage.On("ListStreams", mock.Anything).Return([]models.Stream{
			{Id: uuid.New().String(), CreatorAccount: "creator-1", PricePerTick: 5, Live: true},
			{Id: uuid.New().String(), CreatorAccount: "creator-2", PricePerTick: 2, Live: false},
		}, nil)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/streams", nil)
		rr := httptest.NewRecorder()

		h.ListStreams(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned []api.Stream
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Len(t, returned, 2)

		mockStorage.AssertExpectations(t)
	})
}

func TestSetStreamLive(t *testing.T) {
	streamId := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		live := &models.Stream{Id: streamId.String(), CreatorAccount: "creator-1", PricePerTick: 5, Live: true}
		mockEngine.On("SetLive", mock.Anything, streamId.String(), true).Return(live, nil)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		body, _ := json.Marshal(api.SetLiveRequest{Live: true})
		req := httptest.NewRequest(http.MethodPost, "/streams/"+streamId.String()+"/live", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.SetStreamLive(rr, req, streamId)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.Stream
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.True(t, returned.Live)

		mockEngine.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		mockEngine.On("SetLive", mock.Anything, streamId.String(), false).
			Return(nil, storage.ErrStreamNotFound)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		body, _ := json.Marshal(api.SetLiveRequest{Live: false})
		req := httptest.NewRequest(http.MethodPost, "/streams/"+streamId.String()+"/live", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.SetStreamLive(rr, req, streamId)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockEngine.AssertExpectations(t)
	})
}

func TestEndStream(t *testing.T) {
	streamId := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		ended := &models.Stream{Id: streamId.String(), CreatorAccount: "creator-1", PricePerTick: 5, Live: false}
		mockEngine.On("EndStream", mock.Anything, streamId.String()).Return(ended, 2, nil)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodPost, "/streams/"+streamId.String()+"/end", nil)
		rr := httptest.NewRecorder()

		h.EndStream(rr, req, streamId)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.EndStreamResult
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, 2, returned.SessionsSettling)
		assert.False(t, returned.Stream.Live)

		mockEngine.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockEngine := new(metering_mocks.Service)
		mockStorage := new(storage_mocks.ApiStore)
		mockEngine.On("EndStream", mock.Anything, streamId.String()).
			Return(nil, 0, storage.ErrStreamNotFound)

		h := streams.NewStreamsHandler(mockEngine, mockStorage)

		req := httptest.NewRequest(http.MethodPost, "/streams/"+streamId.String()+"/end", nil)
		rr := httptest.NewRecorder()

		h.EndStream(rr, req, streamId)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockEngine.AssertExpectations(t)
	})
}
