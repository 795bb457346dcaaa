package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var mealKeyPattern = regexp.MustCompile(`^meals/user-1/[0-9a-f]{16}-[0-9a-f-]{36}\.jpg$`)

func TestMealImageKey(t *testing.T) {
	data := []byte("jpeg bytes")
	first := MealImageKey("user-1", data, "image/jpeg")
	second := MealImageKey("user-1", data, "image/jpeg")

	if !mealKeyPattern.MatchString(first) {
		t.Fatalf("unexpected key %q", first)
	}
	if first == second {
		t.Fatalf("expected unique keys for repeated uploads")
	}
	if first[:len("meals/user-1/")+16] != second[:len("meals/user-1/")+16] {
		t.Fatalf("expected shared content hash prefix: %q vs %q", first, second)
	}
}

func TestMealImageKeySanitizesUserAndExtension(t *testing.T) {
	key := MealImageKey("../evil/user", []byte("x"), "image/png; charset=binary")
	if strings.Contains(key, "..") || !strings.HasPrefix(key, "meals/___evil_user/") {
		t.Fatalf("expected sanitized user segment, got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected .png extension, got %q", key)
	}
	if got := MealImageKey("u", []byte("x"), "not a type"); strings.Contains(got[len(got)-5:], ".") {
		t.Fatalf("expected no extension for malformed content type, got %q", got)
	}
}

func TestLocalStorePutAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("NewLocalStore() unexpected error: %v", err)
	}

	ctx := context.Background()
	reference, err := store.Put(ctx, "meals/u1/photo.jpg", []byte("image"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if reference != "http://localhost:8080/media/meals/u1/photo.jpg" {
		t.Fatalf("unexpected reference %q", reference)
	}

	stored, err := os.ReadFile(filepath.Join(root, "meals", "u1", "photo.jpg"))
	if err != nil || string(stored) != "image" {
		t.Fatalf("expected stored object, got %q (%v)", stored, err)
	}

	if err := store.Delete(ctx, "meals/u1/photo.jpg"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "meals/u1/photo.jpg"); err != nil {
		t.Fatalf("Delete() of missing object should be a no-op, got %v", err)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStore() unexpected error: %v", err)
	}
	for _, key := range []string{"", "/etc/passwd", "meals/../../x"} {
		if _, err := store.Put(context.Background(), key, nil, ""); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("Put(%q) expected ErrInvalidKey, got %v", key, err)
		}
	}
}

type fakeS3Client struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	err     error
}

func (client *fakeS3Client) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	client.puts = append(client.puts, params)
	if client.err != nil {
		return nil, client.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (client *fakeS3Client) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	client.deletes = append(client.deletes, params)
	if client.err != nil {
		return nil, client.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorePutAndDelete(t *testing.T) {
	client := &fakeS3Client{}
	store := newS3StoreWithClient(client, "meal-photos", "https://cdn.example.com")

	reference, err := store.Put(context.Background(), "meals/u1/a.jpg", []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if reference != "https://cdn.example.com/meals/u1/a.jpg" {
		t.Fatalf("unexpected reference %q", reference)
	}
	if len(client.puts) != 1 || aws.ToString(client.puts[0].Bucket) != "meal-photos" || aws.ToString(client.puts[0].ContentType) != "image/jpeg" {
		t.Fatalf("unexpected put input %+v", client.puts)
	}

	if err := store.Delete(context.Background(), "meals/u1/a.jpg"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(client.deletes) != 1 || aws.ToString(client.deletes[0].Key) != "meals/u1/a.jpg" {
		t.Fatalf("unexpected delete input %+v", client.deletes)
	}
}

func TestS3StorePropagatesErrors(t *testing.T) {
	cause := errors.New("access denied")
	store := newS3StoreWithClient(&fakeS3Client{err: cause}, "bucket", "https://cdn")
	if _, err := store.Put(context.Background(), "meals/u/a.jpg", nil, "image/jpeg"); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
