package services

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

const avatarSize = 512

var defaultAvatarColors = []string{
	"#1ABC9C", "#2ECC71", "#3498DB", "#9B59B6", "#34495E",
	"#16A085", "#27AE60", "#2980B9", "#8E44AD", "#2C3E50",
	"#F39C12", "#D35400", "#C0392B", "#7F8C8D", "#E67E22",
}

var errInvalidImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

func invalidImage(field string) *apierr.Error {
	return apierr.FieldError(field, errInvalidImage.Error())
}

type AvatarService interface {
	// RenderInitials draws the user's initials on their palette colour.
	RenderInitials(user *types.User) (bytes.Buffer, error)
	// CreateAndUploadUserAvatar renders, uploads and persists an initials avatar.
	CreateAndUploadUserAvatar(dbc dbctx.Context, user *types.User) error
	// CreateAndUploadUserAvatarFromImage crops, resizes and persists an uploaded photo.
	CreateAndUploadUserAvatarFromImage(dbc dbctx.Context, user *types.User, raw []byte) error
	Enabled() bool
}

type avatarService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	bucketService gcp.BucketService

	bgColors []color.NRGBA
	fontFace font.Face
}

// NewAvatarService loads the palette and font. AVATAR_COLORS_JSON_PATH may
// point at a JSON array of hex strings to replace the built-in palette. A nil
// bucketService is allowed; uploads then fail with storage_unavailable.
func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	palette := defaultAvatarColors
	if path := strings.TrimSpace(os.Getenv("AVATAR_COLORS_JSON_PATH")); path != "" {
		serviceLog.Info("Loading avatar colors...", "path", path)
		loaded, err := loadColorsFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar colors: %w", err)
		}
		palette = loaded
	}
	bgColors := make([]color.NRGBA, 0, len(palette))
	for _, h := range palette {
		r, g, b, err := parseHexRGB(normalizeHex(h))
		if err != nil {
			return nil, fmt.Errorf("invalid avatar color %q: %w", h, err)
		}
		bgColors = append(bgColors, color.NRGBA{R: r, G: g, B: b, A: 255})
	}
	if len(bgColors) == 0 {
		return nil, fmt.Errorf("avatar colors list is empty")
	}

	face, err := loadFontFace(gobold.TTF, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		bucketService: bucketService,
		bgColors:      bgColors,
		fontFace:      face,
	}, nil
}

func (as *avatarService) Enabled() bool { return as.bucketService != nil }

func (as *avatarService) RenderInitials(user *types.User) (bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.DrawCircle(float64(avatarSize)/2, float64(avatarSize)/2, float64(avatarSize)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user.ID))
	dc.DrawRectangle(0, 0, float64(avatarSize), float64(avatarSize))
	dc.Fill()

	initials := user.Initials()
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(avatarSize)/2, float64(avatarSize)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(dbc dbctx.Context, user *types.User) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	if as.bucketService == nil {
		return storageUnavailable()
	}
	buf, err := as.RenderInitials(user)
	if err != nil {
		return err
	}
	return as.replaceAvatar(dbc, user, buf.Bytes())
}

func (as *avatarService) CreateAndUploadUserAvatarFromImage(dbc dbctx.Context, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	if as.bucketService == nil {
		return storageUnavailable()
	}
	processed, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return err
	}
	return as.replaceAvatar(dbc, user, processed.Bytes())
}

// replaceAvatar uploads under a versioned key so CDNs never serve a stale
// object, points the user row at it, then drops the previous object.
func (as *avatarService) replaceAvatar(dbc dbctx.Context, user *types.User, png []byte) error {
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadFile(dbc, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(png)); err != nil {
		return fmt.Errorf("failed to upload user avatar: %w", err)
	}

	user.AvatarBucketKey = newKey
	user.AvatarURL = as.bucketService.GetPublicURL(gcp.BucketCategoryAvatar, newKey)

	transaction := dbc.Tx
	if transaction == nil {
		transaction = as.db
	}
	if err := as.userRepo.UpdateAvatarFields(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, user.ID, user.AvatarBucketKey, user.AvatarURL); err != nil {
		return fmt.Errorf("persist avatar fields: %w", err)
	}

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(dbctx.Context{Ctx: dbc.Ctx}, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, invalidImage("file")
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	if side == 0 {
		return out, invalidImage("file")
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// pickColor maps a user id onto the palette so re-renders keep the colour.
func (as *avatarService) pickColor(id uuid.UUID) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return as.bgColors[int(h.Sum32()%uint32(len(as.bgColors)))]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToUpper(s)
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid hex")
	}
	return raw[0], raw[1], raw[2], nil
}

func loadColorsFromFile(jsonPath string) ([]string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []string
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
