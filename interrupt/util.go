package interrupt

type (
	bo = bool
	st = string
)
