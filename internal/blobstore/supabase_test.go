package blobstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timesheet-backend/internal/blobstore"
)

func TestUpload(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Key":"files/doc.pdf"}`))
	}))
	defer server.Close()

	client := blobstore.NewSupabaseClient(server.URL, "service-key", "files")
	url, err := client.Upload(context.Background(), "doc.pdf", []byte("pdf-bytes"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/storage/v1/object/files/doc.pdf" {
		t.Errorf("path = %s, want /storage/v1/object/files/doc.pdf", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotType != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", gotType)
	}
	if string(gotBody) != "pdf-bytes" {
		t.Errorf("body = %q, want pdf-bytes", gotBody)
	}
	want := server.URL + "/storage/v1/object/public/files/doc.pdf"
	if url != want {
		t.Errorf("public url = %q, want %q", url, want)
	}
}

func TestUploadDefaultsContentType(t *testing.T) {
	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := blobstore.NewSupabaseClient(server.URL, "service-key", "files")
	if _, err := client.Upload(context.Background(), "doc.bin", []byte("x"), ""); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if gotType != "application/octet-stream" {
		t.Errorf("content type = %q, want application/octet-stream", gotType)
	}
}

func TestUploadFailureCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"bucket not found"}`))
	}))
	defer server.Close()

	client := blobstore.NewSupabaseClient(server.URL, "service-key", "files")
	_, err := client.Upload(context.Background(), "doc.pdf", []byte("x"), "application/pdf")
	if err == nil {
		t.Fatal("Upload expected error, got nil")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "bucket not found") {
		t.Errorf("error = %q, want status and body included", err)
	}
}

func TestRemove(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := blobstore.NewSupabaseClient(server.URL, "service-key", "files")
	if err := client.Remove(context.Background(), "doc.pdf"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/storage/v1/object/files/doc.pdf" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestRemoveFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := blobstore.NewSupabaseClient(server.URL, "service-key", "files")
	if err := client.Remove(context.Background(), "doc.pdf"); err == nil {
		t.Fatal("Remove expected error, got nil")
	}
}

func TestObjectName(t *testing.T) {
	name := blobstore.ObjectName("report.pdf")
	if !strings.HasPrefix(name, "timesheet_") {
		t.Errorf("ObjectName = %q, want timesheet_ prefix", name)
	}
	if !strings.HasSuffix(name, "_report.pdf") {
		t.Errorf("ObjectName = %q, want _report.pdf suffix", name)
	}

	nested := blobstore.ObjectName("uploads/march/report.pdf")
	if strings.Contains(nested, "/") {
		t.Errorf("ObjectName = %q, want directories stripped", nested)
	}
}
