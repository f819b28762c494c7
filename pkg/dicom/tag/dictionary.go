package tag

// Entry describes one data dictionary attribute: its keyword, the
// two-character VR code, and the value multiplicity.
type Entry struct {
	Keyword string
	VR      string
	VM      string
}

// dictionary holds the subset of the standard data dictionary this
// codec works with. Implicit-VR decoding and error messages both
// resolve tags through here.
var dictionary = map[Tag]Entry{
	FileMetaInformationGroupLength: {"FileMetaInformationGroupLength", "UL", "1"},
	FileMetaInformationVersion:     {"FileMetaInformationVersion", "OB", "1"},
	MediaStorageSOPClassUID:        {"MediaStorageSOPClassUID", "UI", "1"},
	MediaStorageSOPInstanceUID:     {"MediaStorageSOPInstanceUID", "UI", "1"},
	TransferSyntaxUID:              {"TransferSyntaxUID", "UI", "1"},
	ImplementationClassUID:         {"ImplementationClassUID", "UI", "1"},
	ImplementationVersionName:      {"ImplementationVersionName", "SH", "1"},
	SpecificCharacterSet:           {"SpecificCharacterSet", "CS", "1-n"},

	PatientName:      {"PatientName", "PN", "1"},
	PatientID:        {"PatientID", "LO", "1"},
	PatientBirthDate: {"PatientBirthDate", "DA", "1"},
	PatientSex:       {"PatientSex", "CS", "1"},
	PatientAge:       {"PatientAge", "AS", "1"},
	PatientComments:  {"PatientComments", "LT", "1"},

	StudyDate:        {"StudyDate", "DA", "1"},
	StudyTime:        {"StudyTime", "TM", "1"},
	AccessionNumber:  {"AccessionNumber", "SH", "1"},
	StudyDescription: {"StudyDescription", "LO", "1"},
	StudyInstanceUID: {"StudyInstanceUID", "UI", "1"},
	StudyID:          {"StudyID", "SH", "1"},

	Modality:          {"Modality", "CS", "1"},
	SeriesInstanceUID: {"SeriesInstanceUID", "UI", "1"},
	SeriesNumber:      {"SeriesNumber", "IS", "1"},
	InstanceNumber:    {"InstanceNumber", "IS", "1"},
	SeriesDescription: {"SeriesDescription", "LO", "1"},
	SeriesDate:        {"SeriesDate", "DA", "1"},
	SeriesTime:        {"SeriesTime", "TM", "1"},
	BodyPartExamined:  {"BodyPartExamined", "CS", "1"},

	Manufacturer:          {"Manufacturer", "LO", "1"},
	InstitutionName:       {"InstitutionName", "LO", "1"},
	StationName:           {"StationName", "SH", "1"},
	ManufacturerModelName: {"ManufacturerModelName", "LO", "1"},

	SOPClassUID:          {"SOPClassUID", "UI", "1"},
	SOPInstanceUID:       {"SOPInstanceUID", "UI", "1"},
	InstanceCreationDate: {"InstanceCreationDate", "DA", "1"},
	InstanceCreationTime: {"InstanceCreationTime", "TM", "1"},

	FrameOfReferenceUID:        {"FrameOfReferenceUID", "UI", "1"},
	PositionReferenceIndicator: {"PositionReferenceIndicator", "LO", "1"},

	SamplesPerPixel:           {"SamplesPerPixel", "US", "1"},
	PhotometricInterpretation: {"PhotometricInterpretation", "CS", "1"},
	Rows:                      {"Rows", "US", "1"},
	Columns:                   {"Columns", "US", "1"},
	BitsAllocated:             {"BitsAllocated", "US", "1"},
	BitsStored:                {"BitsStored", "US", "1"},
	HighBit:                   {"HighBit", "US", "1"},
	PixelRepresentation:       {"PixelRepresentation", "US", "1"},
	PixelData:                 {"PixelData", "OW", "1"},
	NumberOfFrames:            {"NumberOfFrames", "IS", "1"},

	ImageType:        {"ImageType", "CS", "2-n"},
	RescaleIntercept: {"RescaleIntercept", "DS", "1"},
	RescaleSlope:     {"RescaleSlope", "DS", "1"},
	RescaleType:      {"RescaleType", "LO", "1"},
	WindowCenter:     {"WindowCenter", "DS", "1-n"},
	WindowWidth:      {"WindowWidth", "DS", "1-n"},
	KVP:              {"KVP", "DS", "1"},

	ImagePositionPatient:    {"ImagePositionPatient", "DS", "3"},
	ImageOrientationPatient: {"ImageOrientationPatient", "DS", "6"},
	SliceThickness:          {"SliceThickness", "DS", "1"},
	SpacingBetweenSlices:    {"SpacingBetweenSlices", "DS", "1"},
	PixelSpacing:            {"PixelSpacing", "DS", "2"},
	SliceLocation:           {"SliceLocation", "DS", "1"},

	ContentDate: {"ContentDate", "DA", "1"},
	ContentTime: {"ContentTime", "TM", "1"},
}

// Lookup returns the dictionary entry for a tag
func Lookup(t Tag) (Entry, bool) {
	e, ok := dictionary[t]
	return e, ok
}

// Keyword returns the dictionary keyword for a tag, or its (gggg,eeee)
// form when the tag is not in the dictionary.
func Keyword(t Tag) string {
	if e, ok := dictionary[t]; ok {
		return e.Keyword
	}
	return t.String()
}
