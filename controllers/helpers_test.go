package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/microforum/apperr"
)

func TestFlexID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    flexID
		wantErr bool
	}{
		{`{"postId": 12}`, 12, false},
		{`{"postId": "12"}`, 12, false},
		{`{"postId": null}`, 0, false},
		{`{"postId": ""}`, 0, false},
		{`{"postId": "abc"}`, 0, true},
		{`{"postId": -1}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var req struct {
				PostID flexID `json:"postId"`
			}
			err := json.Unmarshal([]byte(tt.in), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.PostID)
		})
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "id", Value: "7"}}
	id, err := pathID(c, "id", "post")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	for _, raw := range []string{"", "0", "x", "-3"} {
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := pathID(c, "id", "post")
		assert.True(t, apperr.Is(err, apperr.Validation), raw)
	}
}
