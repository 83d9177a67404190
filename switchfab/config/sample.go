// Copyright 2025 Weft Networks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

const switchSample = `
# The group of the local tunnel port. Frames between ports in the same group
# are dropped unless allow_same_group_routing is set. (default "")
group = ""

# Permit traffic between ports in the same group. (default false)
allow_same_group_routing = false

# Comma separated list of prefixes announced for the local tunnel port. If
# empty, the networks of the tunnel addresses are announced. (default "")
routes = ""
`

const tunnelSample = `
# The name of the TUN device to create. (default "weft")
name = "weft"

# The MTU applied to the TUN device. (default 1420)
mtu = 1420

# The addresses assigned to the TUN device.
addresses = ["10.0.0.1/24"]
`

const hooksSample = `
# Script executed after the tunnel device is up. The device name is passed as
# the first argument. (default "")
up = ""

# Script executed before the tunnel device is torn down. The device name is
# passed as the first argument. (default "")
down = ""
`
