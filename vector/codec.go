package vector

import "github.com/fstkit/fst/weight"

// TropicalCodec is the standard codec for weight.TropicalWeight, the
// default ("standard") arc type.
var TropicalCodec = WeightCodec[weight.TropicalWeight]{
	ArcType: "standard",
	Write:   weight.WriteTropical,
	Read:    weight.ReadTropical,
}

// LogCodec is the standard codec for weight.LogWeight.
var LogCodec = WeightCodec[weight.LogWeight]{
	ArcType: "log",
	Write:   weight.WriteLog,
	Read:    weight.ReadLog,
}
