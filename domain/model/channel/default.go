package channel

// スロバキアの地上波・主要チャンネル
func DefaultTable() Table {
	return NewTable(
		Entry{ID: "rtvs1", Name: "RTVS Jednotka", Aliases: []string{"Jednotka", "RTVS1", "RTVS 1", "rtvs1.sk", "jednotka.rtvs.sk"}},
		Entry{ID: "rtvs2", Name: "RTVS Dvojka", Aliases: []string{"Dvojka", "RTVS2", "RTVS 2", "rtvs2.sk", "dvojka.rtvs.sk"}},
		Entry{ID: "rtvs24", Name: "RTVS :24", Aliases: []string{"RTVS24", "RTVS :24", ":24", "24.rtvs.sk"}},
		Entry{ID: "rtvs_sport", Name: "RTVS Šport", Aliases: []string{"RTVSSport", "RTVS Sport", "sport.rtvs.sk"}},
		Entry{ID: "markiza", Name: "TV Markíza", Aliases: []string{"Markiza", "TV Markiza", "markiza.sk"}},
		Entry{ID: "doma", Name: "TV Doma", Aliases: []string{"Doma", "TV Doma", "doma.sk"}},
		Entry{ID: "dajto", Name: "TV Dajto", Aliases: []string{"Dajto", "TV Dajto", "dajto.sk"}},
		Entry{ID: "joj", Name: "TV JOJ", Aliases: []string{"JOJ", "TV JOJ", "joj.sk"}},
		Entry{ID: "joj_plus", Name: "JOJ Plus", Aliases: []string{"JOJPlus", "JOJ Plus", "Plus", "jojplus.sk"}},
		Entry{ID: "wau", Name: "WAU", Aliases: []string{"WAU", "wau.sk"}},
		Entry{ID: "prima", Name: "TV Prima", Aliases: []string{"Prima", "TV Prima", "prima.sk"}},
		Entry{ID: "ta3", Name: "TA3", Aliases: []string{"TA3", "ta3.sk"}},
	)
}
