package dicom

import (
	"encoding/binary"

	"github.com/jpfielding/medview.go/pkg/dicom/module"
	"github.com/jpfielding/medview.go/pkg/dicom/tag"
)

// MapDataset converts a parsed dataset into the domain entities. The
// dataset itself is transient; the returned entities own copies of
// everything they need, including the pixel buffer.
//
// Required tags (patient ID, study/series instance UIDs, rows, columns,
// bits allocated, pixel representation, pixel data) produce a
// MissingRequiredTagError when absent. Optional tags fall back to
// documented defaults and never fail on absence.
func MapDataset(ds *Dataset) (*module.Patient, *module.Study, *module.Series, *module.Image, error) {
	patient, err := mapPatient(ds)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	study, err := mapStudy(ds)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	series, err := mapSeries(ds)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	image, err := mapImage(ds)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return patient, study, series, image, nil
}

func mapPatient(ds *Dataset) (*module.Patient, error) {
	id, ok := ds.String(tag.PatientID)
	if !ok {
		return nil, &MissingRequiredTagError{Tag: tag.PatientID}
	}
	p := &module.Patient{ID: id}
	if name, ok := ds.String(tag.PatientName); ok {
		p.Name = module.ParsePersonName(name)
	}
	if bd, ok := ds.String(tag.PatientBirthDate); ok {
		p.BirthDate = module.ParseDate(bd)
	}
	p.Sex, _ = ds.String(tag.PatientSex)
	p.Comments, _ = ds.String(tag.PatientComments)
	return p, nil
}

func mapStudy(ds *Dataset) (*module.Study, error) {
	uid, ok := ds.String(tag.StudyInstanceUID)
	if !ok {
		return nil, &MissingRequiredTagError{Tag: tag.StudyInstanceUID}
	}
	s := &module.Study{StudyInstanceUID: uid}
	s.StudyID, _ = ds.String(tag.StudyID)
	s.AccessionNumber, _ = ds.String(tag.AccessionNumber)
	s.Description, _ = ds.String(tag.StudyDescription)
	if d, ok := ds.String(tag.StudyDate); ok {
		s.StudyDate = module.ParseDate(d)
	}
	return s, nil
}

func mapSeries(ds *Dataset) (*module.Series, error) {
	uid, ok := ds.String(tag.SeriesInstanceUID)
	if !ok {
		return nil, &MissingRequiredTagError{Tag: tag.SeriesInstanceUID}
	}
	s := &module.Series{SeriesInstanceUID: uid}
	s.Modality, _ = ds.String(tag.Modality)
	s.Description, _ = ds.String(tag.SeriesDescription)
	s.BodyPartExamined, _ = ds.String(tag.BodyPartExamined)
	if n, ok := ds.Int(tag.SeriesNumber); ok {
		s.SeriesNumber = n
	}
	if d, ok := ds.String(tag.SeriesDate); ok {
		s.SeriesDate = module.ParseDate(d)
	}
	return s, nil
}

func mapImage(ds *Dataset) (*module.Image, error) {
	im := &module.Image{}

	for _, req := range []struct {
		t   tag.Tag
		dst *int
	}{
		{tag.Rows, &im.Rows},
		{tag.Columns, &im.Columns},
		{tag.BitsAllocated, &im.BitsAllocated},
		{tag.PixelRepresentation, &im.PixelRepresentation},
	} {
		v, ok := ds.Int(req.t)
		if !ok {
			return nil, &MissingRequiredTagError{Tag: req.t}
		}
		*req.dst = v
	}

	im.SOPInstanceUID, _ = ds.String(tag.SOPInstanceUID)
	if n, ok := ds.Int(tag.InstanceNumber); ok {
		im.InstanceNumber = n
	}
	if bs, ok := ds.Int(tag.BitsStored); ok {
		im.BitsStored = bs
	} else {
		im.BitsStored = im.BitsAllocated
	}

	// Rescale defaults: identity calibration
	im.RescaleSlope = 1.0
	im.RescaleIntercept = 0.0
	if v, ok, err := ds.Float64(tag.RescaleSlope); err != nil {
		return nil, err
	} else if ok {
		im.RescaleSlope = v
	}
	if v, ok, err := ds.Float64(tag.RescaleIntercept); err != nil {
		return nil, err
	} else if ok {
		im.RescaleIntercept = v
	}

	// Pixel spacing defaults to 1.0/1.0 mm
	im.PixelSpacingRow, im.PixelSpacingCol = 1.0, 1.0
	if vals, ok, err := ds.Float64s(tag.PixelSpacing); err != nil {
		return nil, err
	} else if ok && len(vals) >= 2 {
		im.PixelSpacingRow, im.PixelSpacingCol = vals[0], vals[1]
	}

	if vals, ok, err := ds.Float64s(tag.ImagePositionPatient); err != nil {
		return nil, err
	} else if ok && len(vals) >= 3 {
		im.Position = [3]float64{vals[0], vals[1], vals[2]}
		im.HasPosition = true
	}
	if v, ok, err := ds.Float64(tag.SliceLocation); err != nil {
		return nil, err
	} else if ok {
		im.SliceLocation = v
		im.HasSliceLocation = true
	}

	// Window defaults to the sample type's midrange
	im.WindowCenter, im.WindowWidth = defaultWindow(im.BitsAllocated, im.Signed())
	if v, ok, err := ds.Float64(tag.WindowCenter); err != nil {
		return nil, err
	} else if ok {
		im.WindowCenter = v
	}
	if v, ok, err := ds.Float64(tag.WindowWidth); err != nil {
		return nil, err
	} else if ok {
		im.WindowWidth = v
	}

	raw, ok := ds.Bytes(tag.PixelData)
	if !ok {
		return nil, &MissingRequiredTagError{Tag: tag.PixelData}
	}
	im.PixelData = normalizeByteOrder(raw, im.BitsAllocated, ds.ByteOrder())

	return im, nil
}

// defaultWindow centers the display window over the sample type's full range
func defaultWindow(bits int, signed bool) (center, width float64) {
	full := float64(uint64(1) << uint(bits))
	if signed {
		return 0, full
	}
	return full / 2, full
}

// normalizeByteOrder rewrites 16-bit samples to little endian so volume
// assembly and rendering see one host order regardless of file syntax.
func normalizeByteOrder(raw []byte, bits int, ord binary.ByteOrder) []byte {
	if bits != 16 || ord == binary.LittleEndian {
		return raw
	}
	for i := 0; i+1 < len(raw); i += 2 {
		raw[i], raw[i+1] = raw[i+1], raw[i]
	}
	return raw
}
