package main

import (
	"DentalClinic/FiberConfig"
	"DentalClinic/Models"
)

func main() {
	Models.Connect()
	FiberConfig.FiberConfig()
}
