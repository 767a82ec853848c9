package amazonia

import "math"

// WGS84 ellipsoid and UTM constants.
const (
	wgs84SemiMajor = 6378137.0
	wgs84Flat      = 1 / 298.257223563

	utmScale         = 0.9996
	utmFalseEasting  = 500000.0
	utmFalseNorthing = 10000000.0
)

// utmZone returns the UTM zone number for a longitude in degrees.
func utmZone(lon float64) int {
	zone := int((lon+180)/6) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// utmEPSG returns the EPSG code of the WGS84 UTM zone containing the
// given coordinate (326xx north, 327xx south).
func utmEPSG(lon, lat float64) int {
	zone := utmZone(lon)
	if lat >= 0 {
		return 32600 + zone
	}
	return 32700 + zone
}

// utmForward projects a geographic coordinate (degrees) to UTM
// easting/northing in the given zone, using the standard transverse
// Mercator series expansion on the WGS84 ellipsoid.
func utmForward(lon, lat float64, zone int, south bool) (easting, northing float64) {
	e2 := wgs84Flat * (2 - wgs84Flat)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	lambda0 := float64((zone-1)*6-180+3) * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := wgs84SemiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - lambda0)

	m := wgs84SemiMajor * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting = utmScale*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + utmFalseEasting

	northing = utmScale * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if south {
		northing += utmFalseNorthing
	}
	return easting, northing
}

// rasterGrid describes the scene raster in the item's UTM zone.
type rasterGrid struct {
	EPSG      int
	Shape     []int     // rows, cols
	Transform []float64 // north-up affine: psx, 0, minE, 0, -psy, maxN
}

// projectGrid derives the raster grid from the scene bounding box
// projected into the UTM zone of the scene center.
func projectGrid(meta *SceneMetadata) rasterGrid {
	zone := utmZone(meta.Center.Lon)
	south := meta.Center.Lat < 0

	corners := []Coord{meta.Bounding.UL, meta.Bounding.UR, meta.Bounding.LR, meta.Bounding.LL}
	minE, minN := math.Inf(1), math.Inf(1)
	maxE, maxN := math.Inf(-1), math.Inf(-1)
	for _, corner := range corners {
		e, n := utmForward(corner.Lon, corner.Lat, zone, south)
		minE = math.Min(minE, e)
		maxE = math.Max(maxE, e)
		minN = math.Min(minN, n)
		maxN = math.Max(maxN, n)
	}

	cols := int(math.Round((maxE - minE) / meta.HorizontalPixelSize))
	rows := int(math.Round((maxN - minN) / meta.VerticalPixelSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return rasterGrid{
		EPSG:  utmEPSG(meta.Center.Lon, meta.Center.Lat),
		Shape: []int{rows, cols},
		Transform: []float64{
			meta.HorizontalPixelSize, 0, minE,
			0, -meta.VerticalPixelSize, maxN,
		},
	}
}
