package core_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/core/mocks"
)

var week5 = core.Period{Type: core.RequestTypeWeek, Number: 5, Year: 2023}

type fixture struct {
	gallery  *mocks.MockGalleryClient
	cache    *mocks.MockCacheRepository
	notifier *mocks.MockNotifier
	auth     *mocks.MockAuthorizer
	service  *core.BotService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		gallery:  mocks.NewMockGalleryClient(ctrl),
		cache:    mocks.NewMockCacheRepository(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		auth:     mocks.NewMockAuthorizer(ctrl),
	}
	f.service = core.NewBotService(f.gallery, f.cache, f.notifier, f.auth, zap.NewNop()).
		WithClock(func() time.Time {
			return time.Date(2023, time.February, 1, 12, 0, 0, 0, time.UTC)
		})
	return f
}

func weekCommand(text string) core.SlashCommand {
	return core.SlashCommand{
		UserID:    "U1",
		ChannelID: "C1",
		Command:   core.CommandWeek,
		Text:      text,
	}
}

func TestRunUnauthorizedUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U2").Return(false)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), core.MsgUnauthorized).Times(1)

	cmd := weekCommand("5 2023")
	cmd.UserID = "U2"
	_, err := f.service.Run(context.Background(), cmd)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("Run() error = %v, want %v", err, core.ErrUnauthorized)
	}
}

func TestRunInvalidParameterMakesNoCalls(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), `Parameter "abc" muss eine Zahl sein!`).Times(1)

	_, err := f.service.Run(context.Background(), weekCommand("abc"))
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Run() error = %v, want %v", err, core.ErrInvalidParameter)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), "Unbekannter Befehl /get-day!").Times(1)

	cmd := weekCommand("")
	cmd.Command = "/get-day"
	_, err := f.service.Run(context.Background(), cmd)
	if !errors.Is(err, core.ErrUnknownCommand) {
		t.Fatalf("Run() error = %v, want %v", err, core.ErrUnknownCommand)
	}
}

func TestRunListNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	listErr := &core.StatusError{Kind: core.ErrListNotFound, StatusCode: 404, URL: "https://gallery.example/listImages.php"}

	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return(nil, listErr)
	gomock.InOrder(
		f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), "HTTP Error when retrieving list of images: 404"),
		f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), "Ordner für Jahr 2023 week 5 nicht gefunden!").Times(1),
	)

	_, err := f.service.Run(context.Background(), weekCommand("5 2023"))
	if !errors.Is(err, core.ErrListNotFound) {
		t.Fatalf("Run() error = %v, want %v", err, core.ErrListNotFound)
	}
}

func TestRunListErrorWithoutStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return(nil, core.ErrList)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), "Error when retrieving list of images: failed to list images")

	_, err := f.service.Run(context.Background(), weekCommand("5 2023"))
	if !errors.Is(err, core.ErrList) {
		t.Fatalf("Run() error = %v, want %v", err, core.ErrList)
	}
}

func TestRunEverythingCached(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return([]string{"a.jpg", "b.jpg"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "2023-cw5").
		Return(&core.CacheRecord{PeriodKey: "2023-cw5", PostedIDs: []string{"b.jpg", "a.jpg"}}, nil)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), core.MsgAllSent).Times(1)

	result, err := f.service.Run(context.Background(), weekCommand("5 2023"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.AllCached || result.Posted != 0 {
		t.Fatalf("result = %+v, want all cached with nothing posted", result)
	}
}

func TestRunPostsUncachedImages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var saved [][]string

	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return([]string{"a.jpg", "b.jpg"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "2023-cw5").
		Return(&core.CacheRecord{PeriodKey: "2023-cw5", PostedIDs: []string{"a.jpg"}}, nil)
	f.notifier.EXPECT().SendHeader(gomock.Any(), "*Bilder der Woche 5 2023* (Ergänzung)").Times(1)
	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "b.jpg").
		Return(&core.ImageMetadata{URL: "https://img.example/b.jpg", Caption: "Jane Doe / Sunset"}, nil)
	f.notifier.EXPECT().SendContent(gomock.Any(), gomock.Any(), core.ContentPost{
		ImageURL: "https://img.example/b.jpg",
		Filename: "b.jpg",
		Author:   "Jane Doe",
		Title:    "Sunset",
	}).Return(nil).Times(1)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *core.CacheRecord) error {
			saved = append(saved, slices.Clone(r.PostedIDs))
			return nil
		}).Times(2)
	f.notifier.EXPECT().SendAdmin(gomock.Any(), "Befehl fertig. Es wurden 1/2 Bilder geposted.").Times(1)

	result, err := f.service.Run(context.Background(), weekCommand("5 2023"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Posted != 1 || result.Total != 2 || !result.Supplement {
		t.Fatalf("result = %+v, want 1/2 supplement", result)
	}
	for i, ids := range saved {
		if want := []string{"a.jpg", "b.jpg"}; !slices.Equal(ids, want) {
			t.Fatalf("saved[%d] = %v, want %v", i, ids, want)
		}
	}
}

func TestRunSkipsFailedImages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var last []string

	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return([]string{"a.jpg", "b.jpg", "c.jpg"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "2023-cw5").Return(nil, core.ErrCacheMiss)
	f.notifier.EXPECT().SendHeader(gomock.Any(), "*Bilder der Woche 5 2023*")

	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "a.jpg").Return(nil, &core.MetadataError{
		Filename: "a.jpg",
		Body:     "<html>oops</html>",
		Err:      errors.New("invalid character '<'"),
	})
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(),
		"Error while processing a.jpg decoding JSON message: <html>oops</html>")

	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "b.jpg").
		Return(&core.ImageMetadata{URL: "https://img.example/b.jpg"}, nil)
	f.notifier.EXPECT().SendContent(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&core.StatusError{Kind: core.ErrImageDownload, StatusCode: 503, URL: "https://img.example/b.jpg"})
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(),
		"Error while downloading image from https://img.example/b.jpg. Status: 503")

	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "c.jpg").
		Return(&core.ImageMetadata{URL: "https://img.example/c.jpg"}, nil)
	f.notifier.EXPECT().SendContent(gomock.Any(), gomock.Any(), core.ContentPost{
		ImageURL: "https://img.example/c.jpg",
		Filename: "c.jpg",
		Author:   core.MsgNoAuthor,
	}).Return(nil)

	f.cache.EXPECT().Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *core.CacheRecord) error {
			last = slices.Clone(r.PostedIDs)
			return nil
		}).Times(2)
	f.notifier.EXPECT().SendAdmin(gomock.Any(), "Befehl fertig. Es wurden 1/3 Bilder geposted.")

	result, err := f.service.Run(context.Background(), weekCommand("5 2023"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Posted != 1 || result.Skipped != 2 || result.Supplement {
		t.Fatalf("result = %+v, want 1 posted and 2 skipped", result)
	}
	if want := []string{"c.jpg"}; !slices.Equal(last, want) {
		t.Fatalf("cache = %v, want %v", last, want)
	}
}

func TestRunPersistFailureIsReported(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.auth.EXPECT().IsAuthorized("U1").Return(true)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return([]string{"a.jpg"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "2023-cw5").Return(nil, core.ErrCacheMiss)
	f.notifier.EXPECT().SendHeader(gomock.Any(), gomock.Any())
	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "a.jpg").
		Return(&core.ImageMetadata{URL: "https://img.example/a.jpg", Caption: "A / B"}, nil)
	f.notifier.EXPECT().SendContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("throttled")).Times(2)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), "Error while saving cache 2023-cw5: throttled").Times(2)
	f.notifier.EXPECT().SendAdmin(gomock.Any(), "Befehl fertig. Es wurden 1/1 Bilder geposted.")

	if _, err := f.service.Run(context.Background(), weekCommand("5 2023")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunRepeatTakesShortCircuit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stored := core.NewCacheRecord("2023-cw5")

	f.auth.EXPECT().IsAuthorized("U1").Return(true).Times(2)
	f.gallery.EXPECT().ListImages(gomock.Any(), week5).Return([]string{"a.jpg"}, nil).Times(2)
	f.cache.EXPECT().Get(gomock.Any(), "2023-cw5").
		DoAndReturn(func(context.Context, string) (*core.CacheRecord, error) {
			return &core.CacheRecord{PeriodKey: stored.PeriodKey, PostedIDs: slices.Clone(stored.PostedIDs)}, nil
		}).Times(2)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *core.CacheRecord) error {
			stored.PostedIDs = slices.Clone(r.PostedIDs)
			return nil
		}).Times(2)
	f.notifier.EXPECT().SendHeader(gomock.Any(), gomock.Any()).Times(1)
	f.gallery.EXPECT().GetMetadata(gomock.Any(), week5, "a.jpg").
		Return(&core.ImageMetadata{URL: "https://img.example/a.jpg"}, nil).Times(1)
	f.notifier.EXPECT().SendContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().SendAdmin(gomock.Any(), gomock.Any()).Times(1)
	f.notifier.EXPECT().SendPrivate(gomock.Any(), gomock.Any(), core.MsgAllSent).Times(1)

	for i := 0; i < 2; i++ {
		if _, err := f.service.Run(context.Background(), weekCommand("5 2023")); err != nil {
			t.Fatalf("Run() #%d error = %v", i, err)
		}
	}
}
