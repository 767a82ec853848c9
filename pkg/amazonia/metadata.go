package amazonia

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// sceneFileRegex matches INPE band file names, e.g.
// AMAZONIA_1_WFI_20220811_036_018_L4_BAND2.xml or the
// CBERS-04A/AMAZONIA dual-optics variant with a _LEFT/_RIGHT suffix.
var sceneFileRegex = regexp.MustCompile(
	`^(?P<satellite>\w+)_(?P<mission>\w+)_(?P<camera>\w+)_` +
		`(?P<date>\d{8})_(?P<path>\d{3})_(?P<row>\d{3})_` +
		`(?P<level>[^\W_]+)(?P<optics>_LEFT|_RIGHT)?_` +
		`BAND(?P<band>\d+)\.(tif|xml)$`)

// bandSuffixRegex strips the optics/band suffix from a scene file name,
// leaving the scene directory name.
var bandSuffixRegex = regexp.MustCompile(`(_LEFT|_RIGHT)?_BAND\d+\.(tif|xml)$`)

// Coord is a geographic coordinate in EPSG:4326 degrees.
type Coord struct {
	Lon float64
	Lat float64
}

// Quad holds the four corner coordinates of a scene footprint.
type Quad struct {
	UL Coord
	UR Coord
	LR Coord
	LL Coord
}

// Band describes one spectral band listed in the scene metadata.
type Band struct {
	Number int
	Gain   string
}

// SceneMetadata is the immutable parse result of one INPE metadata file.
type SceneMetadata struct {
	Mission    string
	Number     string
	Instrument string
	Path       int
	Row        int
	Level      string
	Optics     string

	AcquisitionTime time.Time

	Corners  Quad
	Center   Coord
	Bounding Quad

	SunElevation float64
	SunAzimuth   float64
	Roll         float64
	EphemerisVz  float64

	HorizontalPixelSize float64
	VerticalPixelSize   float64
	ProjectionName      string

	Bands []Band

	// MetaFile is the base name of the source metadata file; SceneDir is
	// the scene directory name derived from it.
	MetaFile string
	SceneDir string
}

// SceneID returns the STAC item id for the scene, e.g.
// AMAZONIA_1_WFI_20220811_036_018_L4.
func (m *SceneMetadata) SceneID() string {
	return fmt.Sprintf("%s_%s_%s_%s_%03d_%03d_L%s",
		m.Mission, m.Number, m.Instrument,
		m.AcquisitionTime.Format("20060102"),
		m.Path, m.Row, m.Level)
}

// ProductDir returns the bucket-relative directory holding the scene's
// objects, e.g. AMAZONIA1/WFI/036/018/AMAZONIA_1_WFI_20220811_036_018_L4.
func (m *SceneMetadata) ProductDir() string {
	return fmt.Sprintf("%s%s/%s/%03d/%03d/%s",
		m.Mission, m.Number, m.Instrument, m.Path, m.Row, m.SceneDir)
}

// noLevelID returns the scene id without the processing level, used for
// the quicklook object name.
func (m *SceneMetadata) noLevelID() string {
	return fmt.Sprintf("%s_%s_%s_%s_%03d_%03d",
		m.Mission, m.Number, m.Instrument,
		m.AcquisitionTime.Format("20060102"),
		m.Path, m.Row)
}

// XML decoding layout. Tags carry local names only so the gisplan
// namespace (or its absence in older products) does not matter.

type xmlCoord struct {
	Latitude  string `xml:"latitude"`
	Longitude string `xml:"longitude"`
}

type xmlCornerSet struct {
	UL xmlCoord `xml:"UL"`
	UR xmlCoord `xml:"UR"`
	LR xmlCoord `xml:"LR"`
	LL xmlCoord `xml:"LL"`
	CT xmlCoord `xml:"CT"`
}

type xmlBand struct {
	Number string `xml:",chardata"`
	Gain   string `xml:"gain,attr"`
}

type xmlImage struct {
	Path                string       `xml:"path"`
	Row                 string       `xml:"row"`
	Level               string       `xml:"level"`
	VerticalPixelSize   string       `xml:"verticalPixelSize"`
	HorizontalPixelSize string       `xml:"horizontalPixelSize"`
	ProjectionName      string       `xml:"projectionName"`
	ImageData           xmlCornerSet `xml:"imageData"`
	BoundingBox         xmlCornerSet `xml:"boundingBox"`
	SunPosition         struct {
		Elevation  string `xml:"elevation"`
		SunAzimuth string `xml:"sunAzimuth"`
	} `xml:"sunPosition"`
	Attitudes struct {
		Attitudes []struct {
			Roll string `xml:"roll"`
		} `xml:"attitude"`
	} `xml:"attitudes"`
	Ephemerides struct {
		Ephemerides []struct {
			Vz string `xml:"vz"`
		} `xml:"ephemeris"`
	} `xml:"ephemerides"`
}

type xmlCamera struct {
	Satellite struct {
		Name       string `xml:"name"`
		Number     string `xml:"number"`
		Instrument string `xml:"instrument"`
	} `xml:"satellite"`
	Image          xmlImage `xml:"image"`
	AvailableBands struct {
		Bands []xmlBand `xml:"band"`
	} `xml:"availableBands"`
	Viewing struct {
		Center string `xml:"center"`
	} `xml:"viewing"`
}

type xmlRoot struct {
	xmlCamera
	Left  *xmlCamera `xml:"leftCamera"`
	Right *xmlCamera `xml:"rightCamera"`
}

// ParseFile reads one INPE scene metadata XML file. The file name must
// match the INPE band naming scheme; malformed content yields a
// *ParseError and absent required attributes yield a *MissingFieldError.
func ParseFile(path string) (*SceneMetadata, error) {
	base := filepath.Base(path)
	match := sceneFileRegex.FindStringSubmatch(base)
	if match == nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("file name does not match the INPE scene naming scheme")}
	}
	optics := match[sceneFileRegex.SubexpIndex("optics")]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var root xmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	// The CBERS-04A/AMAZONIA-1 WFI products carry a camera pair; the
	// left camera supplies every field that is not camera specific.
	camera := &root.xmlCamera
	if root.Left != nil {
		camera = root.Left
	}

	meta, err := decodeCamera(camera)
	if err != nil {
		return nil, wrapParse(path, err)
	}
	if root.Left != nil && root.Right != nil {
		if err := mergeRightCamera(meta, root.Left, root.Right); err != nil {
			return nil, wrapParse(path, err)
		}
	}

	meta.Optics = optics
	meta.MetaFile = base
	meta.SceneDir = bandSuffixRegex.ReplaceAllString(base, "")
	return meta, nil
}

// wrapParse keeps MissingFieldError visible to errors.As while tagging
// everything else with the source path.
func wrapParse(path string, err error) error {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return err
	}
	return &ParseError{Path: path, Err: err}
}

func decodeCamera(camera *xmlCamera) (*SceneMetadata, error) {
	meta := &SceneMetadata{}

	for _, field := range []struct {
		name  string
		value string
		dst   *string
	}{
		{"satellite/name", camera.Satellite.Name, &meta.Mission},
		{"satellite/number", camera.Satellite.Number, &meta.Number},
		{"satellite/instrument", camera.Satellite.Instrument, &meta.Instrument},
		{"image/level", camera.Image.Level, &meta.Level},
	} {
		if field.value == "" {
			return nil, &MissingFieldError{Field: field.name}
		}
		*field.dst = field.value
	}
	meta.ProjectionName = camera.Image.ProjectionName

	var err error
	if meta.Path, err = requiredInt("image/path", camera.Image.Path); err != nil {
		return nil, err
	}
	if meta.Row, err = requiredInt("image/row", camera.Image.Row); err != nil {
		return nil, err
	}
	if meta.AcquisitionTime, err = requiredTime("viewing/center", camera.Viewing.Center); err != nil {
		return nil, err
	}

	if meta.Corners, err = decodeQuad("image/imageData", camera.Image.ImageData); err != nil {
		return nil, err
	}
	if meta.Center, err = decodeCoord("image/imageData/CT", camera.Image.ImageData.CT); err != nil {
		return nil, err
	}
	if meta.Bounding, err = decodeQuad("image/boundingBox", camera.Image.BoundingBox); err != nil {
		return nil, err
	}

	if meta.SunElevation, err = requiredFloat("image/sunPosition/elevation", camera.Image.SunPosition.Elevation); err != nil {
		return nil, err
	}
	if meta.SunAzimuth, err = requiredFloat("image/sunPosition/sunAzimuth", camera.Image.SunPosition.SunAzimuth); err != nil {
		return nil, err
	}
	if meta.HorizontalPixelSize, err = requiredFloat("image/horizontalPixelSize", camera.Image.HorizontalPixelSize); err != nil {
		return nil, err
	}
	if meta.VerticalPixelSize, err = requiredFloat("image/verticalPixelSize", camera.Image.VerticalPixelSize); err != nil {
		return nil, err
	}

	if len(camera.Image.Attitudes.Attitudes) == 0 {
		return nil, &MissingFieldError{Field: "image/attitudes/attitude"}
	}
	if meta.Roll, err = requiredFloat("image/attitudes/attitude/roll", camera.Image.Attitudes.Attitudes[0].Roll); err != nil {
		return nil, err
	}

	if len(camera.Image.Ephemerides.Ephemerides) == 0 {
		return nil, &MissingFieldError{Field: "image/ephemerides/ephemeris"}
	}
	if meta.EphemerisVz, err = requiredFloat("image/ephemerides/ephemeris/vz", camera.Image.Ephemerides.Ephemerides[0].Vz); err != nil {
		return nil, err
	}

	if len(camera.AvailableBands.Bands) == 0 {
		return nil, &MissingFieldError{Field: "availableBands/band"}
	}
	for _, band := range camera.AvailableBands.Bands {
		number, err := requiredInt("availableBands/band", band.Number)
		if err != nil {
			return nil, err
		}
		meta.Bands = append(meta.Bands, Band{Number: number, Gain: band.Gain})
	}

	return meta, nil
}

// mergeRightCamera applies the dual-optics adjustments: right-camera
// corners replace UR/LR, center and sun position become left/right
// means, and the bounding box becomes the min/max union.
func mergeRightCamera(meta *SceneMetadata, left, right *xmlCamera) error {
	rightCorners, err := decodeQuad("rightCamera/image/imageData", right.Image.ImageData)
	if err != nil {
		return err
	}
	meta.Corners.UR = rightCorners.UR
	meta.Corners.LR = rightCorners.LR

	rightCenter, err := decodeCoord("rightCamera/image/imageData/CT", right.Image.ImageData.CT)
	if err != nil {
		return err
	}
	meta.Center = Coord{
		Lon: (meta.Center.Lon + rightCenter.Lon) / 2,
		Lat: (meta.Center.Lat + rightCenter.Lat) / 2,
	}

	rightElevation, err := requiredFloat("rightCamera/image/sunPosition/elevation", right.Image.SunPosition.Elevation)
	if err != nil {
		return err
	}
	rightAzimuth, err := requiredFloat("rightCamera/image/sunPosition/sunAzimuth", right.Image.SunPosition.SunAzimuth)
	if err != nil {
		return err
	}
	meta.SunElevation = (meta.SunElevation + rightElevation) / 2
	meta.SunAzimuth = (meta.SunAzimuth + rightAzimuth) / 2

	rightBounding, err := decodeQuad("rightCamera/image/boundingBox", right.Image.BoundingBox)
	if err != nil {
		return err
	}
	meta.Bounding.LL = Coord{
		Lon: minFloat(meta.Bounding.LL.Lon, rightBounding.LL.Lon),
		Lat: minFloat(meta.Bounding.LL.Lat, rightBounding.LL.Lat),
	}
	meta.Bounding.UR = Coord{
		Lon: maxFloat(meta.Bounding.UR.Lon, rightBounding.UR.Lon),
		Lat: maxFloat(meta.Bounding.UR.Lat, rightBounding.UR.Lat),
	}
	return nil
}

func decodeQuad(field string, set xmlCornerSet) (Quad, error) {
	var quad Quad
	var err error
	if quad.UL, err = decodeCoord(field+"/UL", set.UL); err != nil {
		return quad, err
	}
	if quad.UR, err = decodeCoord(field+"/UR", set.UR); err != nil {
		return quad, err
	}
	if quad.LR, err = decodeCoord(field+"/LR", set.LR); err != nil {
		return quad, err
	}
	if quad.LL, err = decodeCoord(field+"/LL", set.LL); err != nil {
		return quad, err
	}
	return quad, nil
}

func decodeCoord(field string, coord xmlCoord) (Coord, error) {
	lat, err := requiredFloat(field+"/latitude", coord.Latitude)
	if err != nil {
		return Coord{}, err
	}
	lon, err := requiredFloat(field+"/longitude", coord.Longitude)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Lon: lon, Lat: lat}, nil
}

func requiredFloat(field, value string) (float64, error) {
	if value == "" {
		return 0, &MissingFieldError{Field: field}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", field, err)
	}
	return f, nil
}

func requiredInt(field, value string) (int, error) {
	if value == "" {
		return 0, &MissingFieldError{Field: field}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", field, err)
	}
	return n, nil
}

// requiredTime parses the viewing center timestamp. INPE products write
// local-format timestamps without a zone; acquisition times are UTC.
func requiredTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &MissingFieldError{Field: field}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("field %q: unrecognized timestamp %q", field, value)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
