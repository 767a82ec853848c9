package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazonia-pds/amazonia-stac/pkg/stac"
)

type fakeS3 struct {
	objects map[string]bool // "bucket/key"
	calls   []string
}

func (f *fakeS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	path := *params.Bucket + "/" + *params.Key
	f.calls = append(f.calls, path)
	if !f.objects[path] {
		return nil, fmt.Errorf("NotFound: %s", path)
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestResolveHTTP(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if r.URL.Path != "/scene/thumb.png" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	r, err := New()
	require.NoError(t, err)

	require.NoError(t, r.Resolve(context.Background(), server.URL+"/scene/thumb.png"))
	assert.Equal(t, http.MethodHead, method)

	err = r.Resolve(context.Background(), server.URL+"/scene/missing.png")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, http.StatusNotFound, resErr.Status)
	assert.Contains(t, resErr.Error(), "missing.png")
}

func TestResolveHTTPTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	r, err := New()
	require.NoError(t, err)

	err = r.Resolve(context.Background(), server.URL+"/gone")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Zero(t, resErr.Status)
	assert.Error(t, resErr.Unwrap())
}

func TestResolveS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]bool{
		"cbers-pds/AMAZONIA1/WFI/036/018/scene/band2.tif": true,
	}}
	r, err := New(WithS3Client(fake))
	require.NoError(t, err)

	require.NoError(t, r.Resolve(context.Background(),
		"s3://cbers-pds/AMAZONIA1/WFI/036/018/scene/band2.tif"))
	assert.Equal(t, []string{"cbers-pds/AMAZONIA1/WFI/036/018/scene/band2.tif"}, fake.calls)

	err = r.Resolve(context.Background(), "s3://cbers-pds/absent.tif")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "s3://cbers-pds/absent.tif", resErr.Href)
}

func TestResolveUnsupportedScheme(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	err = r.Resolve(context.Background(), "ftp://example.com/scene.tif")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, resErr.Error(), "unsupported URL scheme")
}

func TestResolveAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/thumb.png" {
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fake := &fakeS3{objects: map[string]bool{
		"cbers-pds/scene/band2.tif": true,
		"cbers-pds/scene/meta.xml":  true,
	}}
	r, err := New(WithS3Client(fake))
	require.NoError(t, err)

	item := &stac.Item{Assets: map[string]*stac.Asset{
		"thumbnail": {Href: server.URL + "/thumb.png"},
		"metadata":  {Href: "s3://cbers-pds/scene/meta.xml"},
		"B2":        {Href: "s3://cbers-pds/scene/band2.tif"},
	}}
	require.NoError(t, r.ResolveAssets(context.Background(), item))
	// Assets are visited in sorted key order.
	assert.Equal(t, []string{"cbers-pds/scene/band2.tif", "cbers-pds/scene/meta.xml"}, fake.calls)

	item.Assets["B2"].Href = "s3://cbers-pds/scene/band9.tif"
	err = r.ResolveAssets(context.Background(), item)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "s3://cbers-pds/scene/band9.tif", resErr.Href)
}

func TestResolveAssetsStopsAtFirstFailure(t *testing.T) {
	fake := &fakeS3{objects: map[string]bool{}}
	r, err := New(WithS3Client(fake))
	require.NoError(t, err)

	item := &stac.Item{Assets: map[string]*stac.Asset{
		"B1": {Href: "s3://bucket/a.tif"},
		"B2": {Href: "s3://bucket/b.tif"},
	}}
	require.Error(t, r.ResolveAssets(context.Background(), item))
	assert.Len(t, fake.calls, 1)
}

func TestNewRejectsNilHTTPClient(t *testing.T) {
	_, err := New(WithHTTPClient(nil))
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
