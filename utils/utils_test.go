package utils

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := SignAccessToken("secret", "0b9c6c1e-1111-4e5e-9a57-2a1e2b3c4d5e", time.Hour)
	require.NoError(t, err)

	sub, err := ParseAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "0b9c6c1e-1111-4e5e-9a57-2a1e2b3c4d5e", sub)

	_, err = ParseAccessToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := SignAccessToken("secret", "u1", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBMI(t *testing.T) {
	bmi, err := BMI(180, 78)
	require.NoError(t, err)
	assert.Equal(t, 24.1, bmi)
	assert.Equal(t, "Normal weight", BMICategory(bmi))
	assert.Equal(t, "Underweight", BMICategory(17))
	assert.Equal(t, "Obese", BMICategory(31))

	_, err = BMI(0, 78)
	assert.ErrorIs(t, err, ErrImplausibleBody)
}

func TestParseDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	img, err := ParseDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)
	assert.Equal(t, []byte("png-bytes"), img.Data)

	img, err = ParseDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", img.Ext)

	for _, bad := range []string{"", payload, "data:text/plain;base64," + payload, "data:image/png;base64,%%%"} {
		_, err := ParseDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUploadDataURL(t *testing.T) {
	putter := &fakePutter{}
	u := NewUploader(putter, "pictures", "https://cdn.example.com/")

	url, err := u.UploadDataURL(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("img")), "user-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/profile-pictures/user-1-"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, "pictures", *putter.input.Bucket)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Equal(t, []byte("img"), putter.body)

	var disabled *Uploader
	_, err = disabled.UploadDataURL(context.Background(), "data:image/png;base64,aW1n", "user-1")
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}
