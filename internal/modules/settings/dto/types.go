package dto

type SettingOutput struct {
	Key   string
	Value string
}

type SetInput struct {
	Key   string
	Value string
}
