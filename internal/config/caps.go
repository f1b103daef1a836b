package config

// salaryCaps maps season-ending year to that season's NBA salary cap in USD.
// These are league facts, not tunables, so they live in code. The 2021 cap
// repeats 2020's because the league froze it during the pandemic.
var salaryCaps = map[int]float64{
	2015: 63_065_000,
	2016: 70_000_000,
	2017: 94_143_000,
	2018: 99_093_000,
	2019: 101_869_000,
	2020: 109_140_000,
	2021: 109_140_000,
}

// SalaryCap returns the cap for a season-ending year.
func SalaryCap(season int) (float64, bool) {
	cap, ok := salaryCaps[season]
	return cap, ok
}
