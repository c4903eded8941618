package config

// Policy параметры переговоров. Floor price живёт только в конфиге
// и в движке, наружу он не отдаётся.
type Policy struct {
	ListPrice         int64  `env:"LIST_PRICE" envDefault:"1000"`
	FloorPrice        int64  `env:"FLOOR_PRICE" envDefault:"800"`
	MaxReplySentences int    `env:"MAX_REPLY_SENTENCES" envDefault:"3"`
	Tone              string `env:"TONE" envDefault:"freundlich, locker, bestimmt"`
	VariantTag        string `env:"VARIANT_TAG" envDefault:"control"`
}
