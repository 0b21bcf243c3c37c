package telemetry

import "go.opentelemetry.io/otel/attribute"

// Атрибуты span-ов, специфичные для QC
func AttrPipeline(name string) attribute.KeyValue {
	return attribute.String("qc.pipeline", name)
}

func AttrDataSource(name string) attribute.KeyValue {
	return attribute.String("qc.data_source", name)
}

func AttrCheck(kind string) attribute.KeyValue {
	return attribute.String("qc.check", kind)
}

func AttrStations(n int) attribute.KeyValue {
	return attribute.Int("qc.stations", n)
}

func AttrSeriesLen(n int) attribute.KeyValue {
	return attribute.Int("qc.series_len", n)
}

func AttrExtraSpec(spec string) attribute.KeyValue {
	return attribute.String("qc.extra_spec", spec)
}
