package models

type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

type ModelType string

const (
	ModelSegmentation   ModelType = "SEGMENTATION"
	ModelClassification ModelType = "CLASSIFICATION"
)

func (t ModelType) IsValid() bool {
	return t == ModelSegmentation || t == ModelClassification
}

// SCLClass is a value of the fixed 12-entry Scene Classification Layer
// taxonomy.
type SCLClass int

const (
	SCLNoData SCLClass = iota
	SCLSaturated
	SCLShadows
	SCLCloudShadows
	SCLVegetation
	SCLNotVegetated
	SCLWater
	SCLUnclassified
	SCLCloudMediumProb
	SCLCloudHighProb
	SCLThinCirrus
	SCLSnowIce
)

var sclNames = map[SCLClass]string{
	SCLNoData:          "NO_DATA",
	SCLSaturated:       "SATURATED",
	SCLShadows:         "SHADOWS",
	SCLCloudShadows:    "CLOUD_SHADOWS",
	SCLVegetation:      "VEGETATION",
	SCLNotVegetated:    "NOT_VEGETATED",
	SCLWater:           "WATER",
	SCLUnclassified:    "UNCLASSIFIED",
	SCLCloudMediumProb: "CLOUD_MEDIUM_PROB",
	SCLCloudHighProb:   "CLOUD_HIGH_PROB",
	SCLThinCirrus:      "THIN_CIRRUS",
	SCLSnowIce:         "SNOW_ICE",
}

func (c SCLClass) IsValid() bool {
	_, ok := sclNames[c]
	return ok
}

func (c SCLClass) Name() string {
	if name, ok := sclNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// ImageDtypes lists the pixel data types accepted for images and model
// outputs.
var ImageDtypes = []string{
	"bool",
	"uint8", "uint16", "uint32", "uint64",
	"int16", "int32", "int64",
	"float32", "float64",
}

func IsValidDtype(dtype string) bool {
	for _, d := range ImageDtypes {
		if d == dtype {
			return true
		}
	}
	return false
}
