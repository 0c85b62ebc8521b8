package food

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRepo struct {
	items       []models.FoodItem
	created     []models.FoodItem
	existing    map[string]struct{}
	createErr   func(item *models.FoodItem) error
	findErr     error
	listErr     error
	existingErr error
	searchQuery string
	searchLimit int
	findCalls   int
}

func (r *stubRepo) List(ctx context.Context) ([]models.FoodItem, error) {
	return r.items, r.listErr
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) Search(ctx context.Context, q string, limit int) ([]models.FoodItem, error) {
	r.searchQuery = q
	r.searchLimit = limit
	return r.items, nil
}

func (r *stubRepo) Create(ctx context.Context, item *models.FoodItem) error {
	if r.createErr != nil {
		if err := r.createErr(item); err != nil {
			return err
		}
	}
	item.ID = uuid.New()
	r.created = append(r.created, *item)
	return nil
}

func (r *stubRepo) ExistingBarcodes(ctx context.Context, barcodes []string) (map[string]struct{}, error) {
	if r.existingErr != nil {
		return nil, r.existingErr
	}
	if r.existing == nil {
		return map[string]struct{}{}, nil
	}
	return r.existing, nil
}

type stubUploader struct {
	calls int
	url   string
	err   error
}

func (u *stubUploader) UploadDataURI(ctx context.Context, dataURI string) (string, error) {
	u.calls++
	return u.url, u.err
}

type stubNotifier struct {
	items []models.FoodItem
}

func (n *stubNotifier) FoodItemSubmitted(ctx context.Context, item models.FoodItem) {
	n.items = append(n.items, item)
}

func (n *stubNotifier) Drain(context.Context) error { return nil }

type stubLocker struct {
	acquired bool
	err      error
	released bool
}

func (l *stubLocker) AcquireLock(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil || !l.acquired {
		return nil, false, l.err
	}
	return func(context.Context) error {
		l.released = true
		return nil
	}, true, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type fixture struct {
	repo     *stubRepo
	uploader *stubUploader
	notifier *stubNotifier
	svc      Service
}

func newFixture(t *testing.T, lock *stubLocker) fixture {
	t.Helper()
	f := fixture{
		repo:     &stubRepo{},
		uploader: &stubUploader{url: "https://storage.googleapis.com/bucket/eat-wise-app/img.png"},
		notifier: &stubNotifier{},
	}
	params := ServiceParams{
		Repo:     f.repo,
		Uploader: f.uploader,
		Notifier: f.notifier,
		Logger:   testLogger(),
	}
	if lock != nil {
		params.Locker = lock
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestGetRejectsMalformedIDWithoutStoreAccess(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Get(context.Background(), "not-a-uuid")

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Invalid food item ID", pkgerrors.As(err).Message())
	assert.Zero(t, f.repo.findCalls)
}

func TestGetNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Get(context.Background(), uuid.NewString())

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Food item not found", pkgerrors.As(err).Message())
}

func TestGetReturnsItem(t *testing.T) {
	f := newFixture(t, nil)
	item := models.FoodItem{ID: uuid.New(), Name: "Oats"}
	f.repo.items = []models.FoodItem{item}

	got, err := f.svc.Get(context.Background(), item.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Oats", got.Name)
}

func TestGetStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.findErr = errors.New("connection reset")

	_, err := f.svc.Get(context.Background(), uuid.NewString())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestSearchRequiresQuery(t *testing.T) {
	f := newFixture(t, nil)

	for _, q := range []string{"", "   "} {
		_, err := f.svc.Search(context.Background(), q)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		assert.Equal(t, "Search query is required", pkgerrors.As(err).Message())
	}
}

func TestSearchTrimsAndCaps(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Search(context.Background(), "  milk ")
	require.NoError(t, err)
	assert.Equal(t, "milk", f.repo.searchQuery)
	assert.Equal(t, SearchLimit, f.repo.searchLimit)
}

func TestListWrapsStoreErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.listErr = errors.New("boom")

	_, err := f.svc.List(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestCreateNormalizesAndPersists(t *testing.T) {
	f := newFixture(t, nil)

	item, err := f.svc.Create(context.Background(), CreateFoodRequest{
		Name:        "  Granola ",
		Ingredients: "Oats, Honey,, Almonds ,",
		Barcode:     "  ",
		Tags:        []string{"Breakfast", "breakfast ", "Cereal"},
		Allergens:   []string{"Nuts"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Granola", item.Name)
	assert.Equal(t, []string{"Oats", "Honey", "Almonds"}, []string(item.Ingredients))
	assert.Nil(t, item.Barcode)
	assert.Equal(t, DefaultSource, item.Source)
	assert.Equal(t, []string{"breakfast", "cereal"}, []string(item.Tags))
	assert.Equal(t, []string{"nuts"}, []string(item.Allergens))
	assert.Empty(t, item.ImageURL)
	assert.Zero(t, f.uploader.calls)
	require.Len(t, f.notifier.items, 1)
	assert.Equal(t, item.ID, f.notifier.items[0].ID)
}

func TestCreateRequiresNameAndIngredients(t *testing.T) {
	f := newFixture(t, nil)

	cases := []CreateFoodRequest{
		{Name: " ", Ingredients: "Salt"},
		{Name: "Salt", Ingredients: ""},
		{Name: "Salt", Ingredients: " , ,"},
	}
	for _, req := range cases {
		_, err := f.svc.Create(context.Background(), req)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		assert.Equal(t, MsgRequiredFields, pkgerrors.As(err).Message())
	}
	assert.Empty(t, f.repo.created)
}

func TestCreateRejectsOutOfRangeSafetyScore(t *testing.T) {
	f := newFixture(t, nil)
	score := 101

	_, err := f.svc.Create(context.Background(), CreateFoodRequest{Name: "Tea", Ingredients: "Tea", SafetyScore: &score})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateWithImageUsesUploadedURL(t *testing.T) {
	f := newFixture(t, nil)

	item, err := f.svc.Create(context.Background(), CreateFoodRequest{
		Name:         "Tea",
		Ingredients:  "Tea leaves",
		ImageDataURI: "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.uploader.calls)
	assert.Equal(t, f.uploader.url, item.ImageURL)
}

func TestCreateUploadFailurePersistsNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.uploader.err = pkgerrors.Wrap(pkgerrors.CodeUpstream, errors.New("bucket unreachable"), "Image upload failed")

	_, err := f.svc.Create(context.Background(), CreateFoodRequest{
		Name:         "Tea",
		Ingredients:  "Tea leaves",
		ImageDataURI: "data:image/png;base64,AAAA",
	})

	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))
	assert.Equal(t, "Image upload failed: bucket unreachable", pkgerrors.As(err).Message())
	assert.Empty(t, f.repo.created)
	assert.Empty(t, f.notifier.items)
}

func TestCreateDuplicateBarcodeIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.createErr = func(*models.FoodItem) error { return ErrDuplicateBarcode }

	_, err := f.svc.Create(context.Background(), CreateFoodRequest{Name: "Cola", Ingredients: "Water", Barcode: "123"})

	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Contains(t, pkgerrors.As(err).Message(), "barcode already exists")
	assert.Empty(t, f.notifier.items)
}

func TestSeedInsertsOnlyMissingItems(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.existing = map[string]struct{}{"000000000001": {}, "000000000003": {}}

	result, err := f.svc.Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SeedResult{Inserted: 3, AlreadyExisted: 2}, *result)
	require.Len(t, f.repo.created, 3)
	for _, item := range f.repo.created {
		assert.Equal(t, seedSource, item.Source)
	}
	assert.Equal(t, "Food items seeded successfully. Inserted: 3 new items. 2 items already existed.", SeedMessage(*result))
}

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.existing = map[string]struct{}{}
	for _, item := range SampleItems() {
		f.repo.existing[*item.Barcode] = struct{}{}
	}

	result, err := f.svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{AlreadyExisted: 5}, *result)
	assert.Empty(t, f.repo.created)
}

func TestSeedContinuesPastFailures(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.createErr = func(item *models.FoodItem) error {
		switch *item.Barcode {
		case "000000000002":
			return ErrDuplicateBarcode
		case "000000000004":
			return errors.New("insert timeout")
		}
		return nil
	}

	result, err := f.svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Inserted: 3, AlreadyExisted: 1, Failed: 1}, *result)
}

func TestSeedFailsWhenNothingSucceeds(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.createErr = func(*models.FoodItem) error { return errors.New("read-only transaction") }

	_, err := f.svc.Seed(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestSeedLookupFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.existingErr = errors.New("timeout")

	_, err := f.svc.Seed(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestSeedHonoursLock(t *testing.T) {
	held := &stubLocker{acquired: false}
	f := newFixture(t, held)

	_, err := f.svc.Seed(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Empty(t, f.repo.created)

	free := &stubLocker{acquired: true}
	f = newFixture(t, free)
	_, err = f.svc.Seed(context.Background())
	require.NoError(t, err)
	assert.True(t, free.released)
}

func TestSampleItemsHaveUniqueBarcodes(t *testing.T) {
	seen := map[string]bool{}
	for _, item := range SampleItems() {
		require.NotNil(t, item.Barcode)
		assert.False(t, seen[*item.Barcode], *item.Barcode)
		seen[*item.Barcode] = true
	}
	assert.Len(t, seen, 5)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitIngredients(" a ,, b c ,"))
	assert.Equal(t, []string{}, SplitIngredients(""))
}
